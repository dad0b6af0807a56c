package types

import "testing"

func TestParseImageListDropsNonStrings(t *testing.T) {
	raw := []byte(`["a.jpg", 7, {"url": "b.jpg"}, "c.jpg", null]`)
	parsed, err := ParseImageList(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(parsed) != 2 || parsed[0] != "a.jpg" || parsed[1] != "c.jpg" {
		t.Fatalf("expected ordered string elements only, got %v", parsed)
	}
}

func TestParseImageListSingleString(t *testing.T) {
	parsed, err := ParseImageList([]byte(`"only.jpg"`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(parsed) != 1 || parsed[0] != "only.jpg" {
		t.Fatalf("expected single-element list, got %v", parsed)
	}
}

func TestParseImageListUnexpectedShape(t *testing.T) {
	parsed, err := ParseImageList([]byte(`{"cover": "x.jpg"}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(parsed) != 0 {
		t.Fatalf("expected empty list for object payload, got %v", parsed)
	}
}

func TestImageListScanRoundTrip(t *testing.T) {
	var list ImageList
	if err := list.Scan([]byte(`["x.jpg","y.jpg"]`)); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 images, got %d", len(list))
	}

	value, err := list.Value()
	if err != nil {
		t.Fatalf("unexpected value error: %v", err)
	}
	if string(value.([]byte)) != `["x.jpg","y.jpg"]` {
		t.Fatalf("unexpected serialized value %s", value)
	}
}

func TestImageListScanInvalidJSON(t *testing.T) {
	var list ImageList
	if err := list.Scan([]byte(`{invalid`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
