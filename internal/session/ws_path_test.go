package session

import "testing"

func TestSessionIDFromParam(t *testing.T) {
	t.Parallel()

	const valid = "6f1c2a8e-4b7d-4c1e-9a55-2d0f3b9e7c11"

	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "valid", raw: valid, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "upper", raw: "6F1C2A8E-4B7D-4C1E-9A55-2D0F3B9E7C11", ok: false},
		{name: "urn", raw: "urn:uuid:" + valid, ok: false},
		{name: "braced", raw: "{" + valid + "}", ok: false},
		{name: "no_dashes", raw: "6f1c2a8e4b7d4c1e9a552d0f3b9e7c11", ok: false},
		{name: "garbage", raw: "abc", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := sessionIDFromParam(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v (got=%q)", ok, tc.ok, got)
			}
			if ok && got != tc.raw {
				t.Fatalf("got=%q, want %q", got, tc.raw)
			}
		})
	}
}
