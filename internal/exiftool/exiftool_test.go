// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exiftool

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	available bool                       // whether LookPath finds exiftool
	outputs   map[string]string          // "name arg1 arg2" -> stdout
	errs      map[string]error           // "name arg1 arg2" -> error
	calls     []string                   // every RunOut invocation, joined
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunOut(name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	m.calls = append(m.calls, key)
	return m.outputs[key], m.errs[key]
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantVer string
		wantErr string
	}{
		{
			name: "found and runnable",
			exec: &mockExecutor{
				available: true,
				outputs:   map[string]string{"/usr/bin/exiftool -ver": "13.34\n"},
			},
			wantVer: "13.34",
		},
		{
			name:    "not on PATH",
			exec:    &mockExecutor{},
			wantErr: "not found on PATH",
		},
		{
			name: "on PATH but not runnable",
			exec: &mockExecutor{
				available: true,
				errs:      map[string]error{"/usr/bin/exiftool -ver": errors.New("permission denied")},
			},
			wantErr: "not runnable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := detect(tt.exec)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tool.Version() != tt.wantVer {
				t.Errorf("version = %q, want %q", tool.Version(), tt.wantVer)
			}
		})
	}
}

func TestReadLensModel(t *testing.T) {
	exec := &mockExecutor{
		available: true,
		outputs: map[string]string{
			"/usr/bin/exiftool -ver":                      "13.34",
			"/usr/bin/exiftool -s3 -LensModel /in/a.dng":  "SIRUI Z 20mm f/1.8S\n",
			"/usr/bin/exiftool -s3 -LensModel /in/b.dng":  "",
		},
	}
	tool, err := detect(exec)
	if err != nil {
		t.Fatal(err)
	}

	lens, err := tool.ReadLensModel("/in/a.dng")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lens != "SIRUI Z 20mm f/1.8S" {
		t.Errorf("lens = %q, want SIRUI model", lens)
	}

	// No lens tag at all yields an empty string, not an error.
	lens, err = tool.ReadLensModel("/in/b.dng")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lens != "" {
		t.Errorf("lens = %q, want empty", lens)
	}
}

func TestApplyScale(t *testing.T) {
	scale := types.ScaleTag{Horizontal: 0.75, Vertical: 1.0}
	applyKey := "/usr/bin/exiftool -overwrite_original -DefaultScale=0.75 1.0 /out/a_stretched.dng"

	tests := []struct {
		name    string
		output  string
		err     error
		wantErr string
	}{
		{
			name:   "success",
			output: "    1 image files updated\n",
		},
		{
			name:    "non-zero exit",
			output:  "Error: File not found - /out/a_stretched.dng\n",
			err:     errors.New("exit status 1"),
			wantErr: "exiftool failed",
		},
		{
			name:    "error text on exit zero",
			output:  "Warning: minor issue\n    0 image files updated\n    1 files weren't updated\n",
			wantErr: "weren't updated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{
				available: true,
				outputs: map[string]string{
					"/usr/bin/exiftool -ver": "13.34",
					applyKey:                 tt.output,
				},
			}
			if tt.err != nil {
				exec.errs = map[string]error{applyKey: tt.err}
			}

			tool, err := detect(exec)
			if err != nil {
				t.Fatal(err)
			}

			err = tool.ApplyScale("/out/a_stretched.dng", scale)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				last := exec.calls[len(exec.calls)-1]
				if last != applyKey {
					t.Errorf("invoked %q, want %q", last, applyKey)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestErrorSignature(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{name: "clean output", out: "    1 image files updated\n", want: ""},
		{name: "error line", out: "Error: Not a valid DNG\n", want: "Error: Not a valid DNG"},
		{name: "not updated", out: "    1 files weren't updated\n", want: "1 files weren't updated"},
		{name: "warning only", out: "Warning: bad maker notes\n    1 image files updated\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorSignature(tt.out); got != tt.want {
				t.Errorf("errorSignature = %q, want %q", got, tt.want)
			}
		})
	}
}
