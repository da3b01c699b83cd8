package mqtt

import (
	"context"
	"testing"
)

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{"missing broker", ClientConfig{}, true},
		{"plain broker", ClientConfig{BrokerURL: "tcp://localhost:1883"}, false},
		{"cert without key", ClientConfig{BrokerURL: "mqtts://b:8883", ClientCert: "pem"}, true},
		{"key without cert", ClientConfig{BrokerURL: "mqtts://b:8883", ClientKey: "pem"}, true},
		{"bad will qos", ClientConfig{BrokerURL: "tcp://b:1883", WillQoS: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTLSConfigRejectsGarbageKeyPair(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "mqtts://b:8883", ClientCert: "not a cert", ClientKey: "not a key"}
	if _, err := cfg.TLSConfig(); err == nil {
		t.Fatal("expected an error for an invalid key pair")
	}

	cfg = &ClientConfig{BrokerURL: "mqtts://b:8883", InsecureSkipVerify: true}
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		t.Fatalf("TLSConfig() error = %v", err)
	}
	if !tlsCfg.InsecureSkipVerify || len(tlsCfg.Certificates) != 0 {
		t.Errorf("unexpected tls config: %+v", tlsCfg)
	}
}

func TestNewClientAppliesDefaults(t *testing.T) {
	cfg := &ClientConfig{BrokerURL: "tcp://localhost:1883"}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if cfg.KeepAlive != 60 || cfg.ConnectTimeout == 0 || cfg.ReconnectInterval == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if c.IsConnected() {
		t.Error("a client that was never started must not report connected")
	}
	if err := c.Publish(context.Background(), "t", 1, false, nil); err == nil {
		t.Error("Publish before Start should fail")
	}
}
