package tag_test

import (
	"bytes"
	"testing"

	"github.com/neac-audio/neac/tag"
)

func TestEmptyTagRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := tag.Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1 || buf.Bytes()[0] != 0 {
		t.Fatalf("got %v, want [0]", buf.Bytes())
	}

	got, err := tag.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Empty() {
		t.Fatal("expected empty tag")
	}
}

func TestStringAndIntegerFieldsRoundTrip(t *testing.T) {
	want := tag.New()
	if err := want.SetString(tag.Title, "Test Title"); err != nil {
		t.Fatal(err)
	}
	if err := want.SetString(tag.Artist, "Test Artist"); err != nil {
		t.Fatal(err)
	}
	if err := want.SetUint16(tag.Year, 2024); err != nil {
		t.Fatal(err)
	}
	if err := want.SetUint16(tag.TrackNumber, 7); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tag.Write(&buf, want); err != nil {
		t.Fatal(err)
	}

	got, err := tag.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if s, ok := got.String(tag.Title); !ok || s != "Test Title" {
		t.Errorf("Title = %q, %v", s, ok)
	}
	if s, ok := got.String(tag.Artist); !ok || s != "Test Artist" {
		t.Errorf("Artist = %q, %v", s, ok)
	}
	if v, ok := got.Uint16(tag.Year); !ok || v != 2024 {
		t.Errorf("Year = %d, %v", v, ok)
	}
	if v, ok := got.Uint16(tag.TrackNumber); !ok || v != 7 {
		t.Errorf("TrackNumber = %d, %v", v, ok)
	}
}

func TestPictureRoundTrip(t *testing.T) {
	want := tag.New()
	data := bytes.Repeat([]byte{0xAB}, 200)
	if err := want.SetPicture(data); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tag.Write(&buf, want); err != nil {
		t.Fatal(err)
	}

	got, err := tag.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	pic, ok := got.Picture()
	if !ok {
		t.Fatal("expected picture present")
	}
	if !bytes.Equal(pic, data) {
		t.Fatal("picture payload mismatch")
	}
}

func TestUnknownIDIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	// present=1, count=1, unknown id 200, size 3, payload "xyz"
	buf.Write([]byte{1, 1, 200, 3})
	buf.WriteString("xyz")

	got, err := tag.Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Empty() {
		t.Fatal("expected unknown id to be skipped, leaving an empty tag")
	}
}

func TestSetStringOnIntegerFieldFails(t *testing.T) {
	tg := tag.New()
	if err := tg.SetString(tag.Year, "2024"); err == nil {
		t.Fatal("expected error setting a string on an integer field")
	}
}
