package main

import "testing"

func TestFlagSetParsesOptions(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse([]string{"-c", "viewer.toml", "--debug", "--drop-dir", "/tmp/drops"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.configPath != "viewer.toml" || !opts.debug || opts.dropDir != "/tmp/drops" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestDebugFlagOnlyPromisesLogging(t *testing.T) {
	var opts options
	f := newFlagSet(&opts).Lookup("debug")
	if f == nil {
		t.Fatal("debug flag missing")
	}
	if f.Usage != "verbose logging" {
		t.Fatalf("debug usage = %q", f.Usage)
	}
}
