package rbac

import (
	"context"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"member", "project:create", true},
		{"member", "project:delete-own", true},
		{"member", "post:delete-all", false},
		{"member", "admin:messages", false},
		{"admin", "project:create", true},
		{"admin", "admin:messages", true},
		{"admin", "anything:at-all", true},
		{"ghost", "project:create", false},
		{"", "project:create", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{
		"moderator": {"post:*", "comment:delete-all"},
	})
	if !c.Has("moderator", "post:delete-all") {
		t.Error("post:* must cover post:delete-all")
	}
	if c.Has("moderator", "project:create") {
		t.Error("post:* must not leak into other resources")
	}
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("member", "post:delete-all", "post:delete-own") {
		t.Error("any must pass when one permission matches")
	}
	if c.Any("member", "post:delete-all", "admin:messages") {
		t.Error("any must fail when none match")
	}
}

func TestRoleContextRoundTrip(t *testing.T) {
	ctx := WithRole(context.Background(), "member")
	if got := RoleFromContext(ctx); got != "member" {
		t.Fatalf("got %q", got)
	}
	if got := RoleFromContext(context.Background()); got != "" {
		t.Fatalf("empty context must yield no role, got %q", got)
	}
}
