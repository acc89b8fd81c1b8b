package cmd

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/bookview/internal/viewer"
)

func TestRootHelpMatchesOpeningSpread(t *testing.T) {
	s, err := viewer.New().SetTotalPages(15)
	if err != nil {
		t.Fatalf("SetTotalPages: %v", err)
	}
	sp := viewer.ResolveSpread(s)
	if sp.Right != 1 || !sp.HasLeft || sp.Left != 2 {
		t.Fatalf("opening spread = %+v, want pages 1 and 2", sp)
	}
	if !strings.Contains(rootCmd.Long, "starting with pages 1 and 2") {
		t.Errorf("root help does not describe the opening spread:\n%s", rootCmd.Long)
	}
}
