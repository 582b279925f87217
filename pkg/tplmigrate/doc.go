// Package tplmigrate copies the template table of one deployed contract
// into another. It can be used through the tplmigrate CLI or embedded as a
// library.
//
// # Basic Usage
//
//	m := tplmigrate.New(tplmigrate.WithLogger(logger))
//
//	r, _ := tplmigrate.ParseRange("0", "199")
//	if _, err := m.Fetch(ctx, tplmigrate.FetchConfig{
//	    RPC:     "https://source.node",
//	    Address: "0x...",
//	    Range:   r,
//	    Output:  "templates.json",
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := m.Clean(ctx, "templates.json", "templates.cleaned.json"); err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := m.Push(ctx, tplmigrate.PushConfig{
//	    RPC:        "https://target.node",
//	    Address:    "0x...",
//	    Input:      "templates.cleaned.json",
//	    Credential: tplmigrate.RawSecret{Value: key},
//	    Policy:     tplmigrate.PushPolicy{Live: true},
//	})
//
// # Dry Runs
//
// Push sends nothing unless [PushPolicy].Live is set. A dry run still resolves
// the credential but never dials the node; each call is logged instead.
//
// # Approval
//
// [WithApprover] installs a gate that sees the signer, the target and the
// selected items before a live run starts. Returning an error stops the run.
package tplmigrate
