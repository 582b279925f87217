// Package evm implements the template source and sink ports with go-ethereum.
package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	templateMethod    = "template"
	addTemplateMethod = "addTemplateId"
)

// sourceABI declares the public getter of mapping(uint256 => Data) template.
const sourceABI = `[
  {
    "inputs": [{ "internalType": "uint256", "name": "", "type": "uint256" }],
    "name": "template",
    "outputs": [
      { "internalType": "string", "name": "imageURL", "type": "string" },
      { "internalType": "string", "name": "name", "type": "string" },
      { "internalType": "string", "name": "description", "type": "string" },
      { "internalType": "string", "name": "jsonStorage", "type": "string" },
      { "internalType": "uint8", "name": "level", "type": "uint8" },
      { "internalType": "uint8", "name": "top", "type": "uint8" },
      { "internalType": "uint8", "name": "left", "type": "uint8" },
      { "internalType": "uint8", "name": "right", "type": "uint8" },
      { "internalType": "uint8", "name": "bottom", "type": "uint8" },
      { "internalType": "uint8", "name": "slot", "type": "uint8" }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// targetABI declares addTemplateId. Argument order differs from the getter.
const targetABI = `[
  {
    "inputs": [
      { "internalType": "string", "name": "imageURL", "type": "string" },
      { "internalType": "string", "name": "description", "type": "string" },
      { "internalType": "string", "name": "name", "type": "string" },
      { "internalType": "uint8", "name": "top", "type": "uint8" },
      { "internalType": "uint8", "name": "left", "type": "uint8" },
      { "internalType": "uint8", "name": "right", "type": "uint8" },
      { "internalType": "uint8", "name": "bottom", "type": "uint8" },
      { "internalType": "uint8", "name": "level", "type": "uint8" }
    ],
    "name": "addTemplateId",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	SourceABI = mustParseABI(sourceABI)
	TargetABI = mustParseABI(targetABI)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("evm: invalid ABI: " + err.Error())
	}
	return parsed
}
