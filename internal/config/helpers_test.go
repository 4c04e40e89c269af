package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSearchForConfig(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "oauthconnect.yaml")
	if err := os.WriteFile(cfg, []byte("name: test\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := SearchForConfig("oauthconnect.yaml", nested); got != cfg {
		t.Errorf("SearchForConfig() = %v, want %v", got, cfg)
	}
}

func TestSearchForConfig_noConfig(t *testing.T) {
	if got := SearchForConfig("oauthconnect-rando-11234.yaml", t.TempDir()); got != "" {
		t.Errorf("expected empty string, got %s", got)
	}
}

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "OC__AUTH__SIGNING_KEY", want: "auth.signingKey"},
		{input: "OC__FOOBAR", want: "foobar"},
		{input: "OC__A__B_C", want: "a.bC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TransformEnv(tt.input); got != tt.want {
				t.Errorf("TransformEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
