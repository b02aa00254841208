package config

import "testing"

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	if c.Server.Addr != ":8080" {
		t.Errorf("server addr default = %q", c.Server.Addr)
	}
	if c.Cache.Backend != "memory" {
		t.Errorf("cache backend default = %q", c.Cache.Backend)
	}
	if c.Cache.TTL != "15m" {
		t.Errorf("cache ttl default = %q", c.Cache.TTL)
	}
	if c.Source.MaxPages != 3 {
		t.Errorf("max pages default = %d", c.Source.MaxPages)
	}
	if c.Subscriptions.MergedLimit != 10 {
		t.Errorf("merged limit default = %d", c.Subscriptions.MergedLimit)
	}
}

func TestFillDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{}
	c.Cache.Backend = "redis"
	c.Source.MaxPages = 5
	c.FillDefaults()

	if c.Cache.Backend != "redis" {
		t.Errorf("explicit backend overwritten: %q", c.Cache.Backend)
	}
	if c.Source.MaxPages != 5 {
		t.Errorf("explicit max pages overwritten: %d", c.Source.MaxPages)
	}
}
