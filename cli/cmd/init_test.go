package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr bool
	}{
		{
			name:    "create_new_config",
			force:   false,
			setup:   nil, // no pre-existing file
			wantErr: false,
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: false,
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true, // should fail because file exists
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Depth int    `default:"32"`
				Meta  string `default:""`
			}

			parser, err := kong.New(&cli, kong.Vars{
				ConfigIdentifier: confPath,
			})
			if err != nil {
				t.Fatal(err)
			}

			kctx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			ctx := WithContext(context.Background(), kctx)

			err = (&Init{Force: tt.force}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			config, ok := got[ConfigIdentifier]
			if !ok {
				t.Fatalf("generated config missing %q:\n%s", ConfigIdentifier, content)
			}

			if _, ok := config["depth"]; !ok {
				t.Errorf("generated config missing depth:\n%s", content)
			}

			if _, ok := config["meta"]; ok {
				t.Errorf("generated config has empty meta:\n%s", content)
			}
		})
	}
}

// TestInitBuildConfig tests that buildConfig collects set flag values.
func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool     `help:"Enable verbose output" name:"verbose"`
		Output  string   `help:"Output file"           name:"output"`
		Count   int      `help:"Number of items"       name:"count"`
		Empty   string   `help:"Unset string"          name:"empty"`
		Files   []string `help:"Unset list"            name:"files"`
		Hidden  string   `hidden:""                    name:"secret"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse([]string{"--verbose", "--output=test.txt", "--count=5", "--secret=x"})
	if err != nil {
		t.Fatal(err)
	}

	config := (&Init{}).buildConfig(kctx)

	want := map[string]any{"verbose": true, "output": "test.txt", "count": 5}
	if len(config) != len(want) {
		t.Errorf("buildConfig() = %v, want %v", config, want)
	}

	for k, v := range want {
		if config[k] != v {
			t.Errorf("buildConfig()[%s] = %v, want %v", k, config[k], v)
		}
	}
}
