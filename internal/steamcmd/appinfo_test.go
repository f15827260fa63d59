package steamcmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestParseInfoBlockFixture(t *testing.T) {
	out := loadFixture(t, "app_info_730.txt")

	info, err := parseInfoBlock(out, 730)
	if err != nil {
		t.Fatalf("parseInfoBlock() error = %v", err)
	}

	name, ok := info.String("common.name")
	if !ok || name != "Counter-Strike: Global Offensive" {
		t.Errorf("common.name = %q, ok = %v", name, ok)
	}

	ufs, ok := info.Object("ufs")
	if !ok || len(ufs) == 0 {
		t.Errorf("ufs = %v, ok = %v, want non-empty block", ufs, ok)
	}

	installdir, ok := info.String("config.installdir")
	if !ok || installdir != "Counter-Strike Global Offensive" {
		t.Errorf("config.installdir = %q, ok = %v", installdir, ok)
	}
}

func TestParseInfoBlockRepeatable(t *testing.T) {
	out := loadFixture(t, "app_info_730.txt")

	first, err := parseInfoBlock(out, 730)
	if err != nil {
		t.Fatalf("first parse error = %v", err)
	}
	second, err := parseInfoBlock(out, 730)
	if err != nil {
		t.Fatalf("second parse error = %v", err)
	}

	firstName, _ := first.String("common.name")
	secondName, _ := second.String("common.name")
	if firstName != secondName {
		t.Errorf("repeated parses disagree: %q vs %q", firstName, secondName)
	}
	if len(first) != len(second) {
		t.Errorf("repeated parses yield different key counts: %d vs %d", len(first), len(second))
	}
}

func TestParseInfoBlockCRLF(t *testing.T) {
	out := strings.ReplaceAll(loadFixture(t, "app_info_730.txt"), "\n", "\r\n")

	info, err := parseInfoBlock(out, 730)
	if err != nil {
		t.Fatalf("parseInfoBlock() error = %v", err)
	}
	if name, _ := info.String("common.name"); name != "Counter-Strike: Global Offensive" {
		t.Errorf("common.name = %q", name)
	}
}

func TestParseInfoBlockMissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{
			name: "app_id_absent",
			out:  "Steam Console Client\nNo app info here\nConVars:\n",
		},
		{
			name: "convars_absent",
			out:  "\"730\"\n{\n\t\"common\"\n\t{\n\t\t\"name\"\t\"x\"\n\t}\n}\n",
		},
		{
			name: "empty_output",
			out:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInfoBlock(tt.out, 730)
			if !errors.Is(err, ErrAppInfoNotFound) {
				t.Errorf("expected ErrAppInfoNotFound, got %v", err)
			}
		})
	}
}

func TestParseInfoBlockWrongApp(t *testing.T) {
	out := loadFixture(t, "app_info_730.txt")

	_, err := parseInfoBlock(out, 440)
	if !errors.Is(err, ErrAppInfoNotFound) {
		t.Errorf("expected ErrAppInfoNotFound for app 440, got %v", err)
	}
}
