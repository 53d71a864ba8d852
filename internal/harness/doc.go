// Package harness runs conformance scenarios against the transliterator.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: canonical
//	description: "Round trips from the reference corpus"
//	rules: tables/custom.yaml   # optional, relative to the scenario file
//	mode: avro                  # default mode for cases
//	nfc: false                  # normalize reverse input to NFC
//	cases:
//	  - input: ami
//	    expect: আমি
//	  - mode: orva
//	    input: কা
//	    expect: ka
//	  - mode: banglish
//	    input: ami
//	    expect: ami
//	    diagnostic: not implemented
//
// A case passes when the output equals expect and, if diagnostic is set,
// the result carries a diagnostic containing it. Cases without diagnostic
// must convert cleanly.
//
// # Deterministic Testing
//
// Every converted case is journaled to a fresh in-memory SQLite store with
// IDs from testutil.SequenceGenerator, so the same scenario always produces
// an identical journal. RunWithGolden snapshots that journal.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/canonical.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
