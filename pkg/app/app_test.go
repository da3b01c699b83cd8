package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cliflag "k8s.io/component-base/cli/flag"
)

type networkOptions struct {
	SSID  string        `mapstructure:"ssid"`
	Delay time.Duration `mapstructure:"delay"`
}

type testOptions struct {
	Network *networkOptions `mapstructure:"network"`

	completed bool
	invalid   error
}

func newTestOptions() *testOptions {
	return &testOptions{Network: &networkOptions{Delay: time.Second}}
}

func (o *testOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fs := fss.FlagSet("network")
	fs.StringVar(&o.Network.SSID, "network.ssid", o.Network.SSID, "ssid")
	fs.DurationVar(&o.Network.Delay, "network.delay", o.Network.Delay, "delay")
	return fss
}

func (o *testOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *testOptions) Validate() error {
	return o.invalid
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chirp.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigPrecedence(t *testing.T) {
	path := writeConfig(t, "network:\n  ssid: file-net\n  delay: 2s\n")
	t.Setenv("CHIRP_TEST_NETWORK_DELAY", "7s")

	opts := newTestOptions()
	var ran bool
	a := NewApp("chirp-test", "test", WithOptions(opts), WithRunFunc(func() error {
		ran = true
		return nil
	}))
	a.Command().SetArgs([]string{"--config", path, "--network.ssid", "flag-net"})

	if err := a.Command().Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran || !opts.completed {
		t.Fatalf("ran=%v completed=%v, want both", ran, opts.completed)
	}
	if opts.Network.SSID != "flag-net" {
		t.Errorf("ssid = %q, want the flag value", opts.Network.SSID)
	}
	if opts.Network.Delay != 7*time.Second {
		t.Errorf("delay = %v, want the env value", opts.Network.Delay)
	}
}

func TestConfigFileOnly(t *testing.T) {
	path := writeConfig(t, "network:\n  ssid: file-net\n")

	opts := newTestOptions()
	a := NewApp("chirp-test", "test", WithOptions(opts), WithRunFunc(func() error { return nil }))
	a.Command().SetArgs([]string{"-c", path})

	if err := a.Command().Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if opts.Network.SSID != "file-net" {
		t.Errorf("ssid = %q, want file-net", opts.Network.SSID)
	}
	if opts.Network.Delay != time.Second {
		t.Errorf("delay = %v, want the default", opts.Network.Delay)
	}
}

func TestValidationStopsRun(t *testing.T) {
	opts := newTestOptions()
	opts.invalid = errors.New("bad options")

	var ran bool
	a := NewApp("chirp-test", "test", WithOptions(opts), WithRunFunc(func() error {
		ran = true
		return nil
	}))
	a.Command().SetArgs(nil)
	a.Command().SetErr(&discard{})

	if err := a.Command().Execute(); !errors.Is(err, opts.invalid) {
		t.Fatalf("Execute() error = %v, want %v", err, opts.invalid)
	}
	if ran {
		t.Error("run func called with invalid options")
	}
}

func TestDefaultValidArgs(t *testing.T) {
	a := NewApp("chirp-test", "test", WithOptions(newTestOptions()), WithDefaultValidArgs(), WithRunFunc(func() error { return nil }))
	a.Command().SetArgs([]string{"extra"})
	a.Command().SetErr(&discard{})

	if err := a.Command().Execute(); err == nil {
		t.Error("Execute() accepted a positional argument")
	}
}

func TestMissingConfigFile(t *testing.T) {
	a := NewApp("chirp-test", "test", WithOptions(newTestOptions()), WithRunFunc(func() error { return nil }))
	a.Command().SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	a.Command().SetErr(&discard{})

	if err := a.Command().Execute(); err == nil {
		t.Error("Execute() succeeded with a missing config file")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
