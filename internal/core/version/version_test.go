package version

import "testing"

func TestInfo(t *testing.T) {
	cases := []struct {
		name, stamped, want string
	}{
		{"long sha is shortened", "0123456789abcdef", "0123456"},
		{"short sha kept", "abc", "abc"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prev := commit
			commit = c.stamped
			t.Cleanup(func() { commit = prev })

			bi := Info("tubeport-api")
			if bi.Commit != c.want || bi.Service != "tubeport-api" || bi.Version == "" || bi.Go == "" {
				t.Fatalf("Info = %+v", bi)
			}
		})
	}
}

func TestInfo_UnstampedCommitNeverEmpty(t *testing.T) {
	prev := commit
	commit = ""
	t.Cleanup(func() { commit = prev })
	if Info("x").Commit == "" {
		t.Fatalf("commit should fall back to vcs or unknown")
	}
}
