package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("user-42", ".jpg")
	if !strings.HasPrefix(key, "user-42/") {
		t.Errorf("key %q lacks user prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q lacks extension", key)
	}

	if key := ObjectKey("u", "png"); !strings.HasSuffix(key, ".png") {
		t.Errorf("bare extension mishandled: %q", key)
	}
	if key := ObjectKey("u", ""); !strings.HasSuffix(key, ".bin") {
		t.Errorf("missing extension should fall back to .bin: %q", key)
	}
}

func TestObjectKeysUnique(t *testing.T) {
	a := ObjectKey("u", ".jpg")
	b := ObjectKey("u", ".jpg")
	if a == b {
		t.Errorf("consecutive keys collided: %q", a)
	}
}
