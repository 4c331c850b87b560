//go:build !manifold

package manifold

import "testing"

func TestNew3ReturnsError(t *testing.T) {
	k, err := New3()
	if err == nil {
		t.Fatal("New3() error = nil, want non-nil error when manifold tag is not set")
	}
	if k != nil {
		t.Fatal("New3() returned non-nil kernel, want nil when manifold tag is not set")
	}

	want := "manifold kernel not available: build with -tags=manifold"
	if err.Error() != want {
		t.Errorf("New3() error = %q, want %q", err.Error(), want)
	}
}

func TestNew2ReturnsError(t *testing.T) {
	k, err := New2()
	if err == nil {
		t.Fatal("New2() error = nil, want non-nil error when manifold tag is not set")
	}
	if k != nil {
		t.Fatal("New2() returned non-nil kernel, want nil when manifold tag is not set")
	}
}
