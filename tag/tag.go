// Package tag implements NEAC's optional stream metadata record: a
// present flag, an entry count, and a sequence of {id, size, payload}
// entries, written and read with plain byte-level I/O the same way the
// container header is (the tag record sits between the header and the
// first entropy-coded block, itself entirely byte-aligned).
package tag

import (
	"fmt"
	"io"
)

// ID identifies a recognized tag field. The table matches spec §4.8's
// list exactly, including "picture", which the original C tag writer
// this spec was distilled from does not define — spec.md is binding.
type ID uint8

const (
	Title ID = iota + 1
	Album
	Artist
	AlbumArtist
	Subtitle
	Publisher
	Composer
	Songwriter
	Conductor
	Copyright
	Genre
	Year
	TrackNumber
	TrackCount
	Disc
	Rate
	Comment
	Picture
)

// integerIDs are the fields carried as a fixed-width (size=2) integer
// payload rather than a NUL-terminated string.
var integerIDs = map[ID]bool{
	Year:        true,
	TrackNumber: true,
	TrackCount:  true,
	Disc:        true,
	Rate:        true,
}

func (id ID) String() string {
	switch id {
	case Title:
		return "title"
	case Album:
		return "album"
	case Artist:
		return "artist"
	case AlbumArtist:
		return "album_artist"
	case Subtitle:
		return "subtitle"
	case Publisher:
		return "publisher"
	case Composer:
		return "composer"
	case Songwriter:
		return "songwriter"
	case Conductor:
		return "conductor"
	case Copyright:
		return "copyright"
	case Genre:
		return "genre"
	case Year:
		return "year"
	case TrackNumber:
		return "track_number"
	case TrackCount:
		return "track_count"
	case Disc:
		return "disc"
	case Rate:
		return "rate"
	case Comment:
		return "comment"
	case Picture:
		return "picture"
	default:
		return fmt.Sprintf("id(%d)", uint8(id))
	}
}

// Tag holds the stream's metadata entries, keyed by ID. Payload bytes are
// stored exactly as they will be (or were) written on the wire.
type Tag struct {
	entries map[ID][]byte
}

// New returns an empty Tag.
func New() *Tag {
	return &Tag{entries: make(map[ID][]byte)}
}

// SetString sets a string-valued field, encoded with a trailing NUL as
// spec §4.8 requires. The encoded payload (string bytes plus the NUL)
// must fit in the 8-bit size field.
func (t *Tag) SetString(id ID, s string) error {
	if integerIDs[id] {
		return fmt.Errorf("tag: %s is an integer field, not a string field", id)
	}
	payload := append([]byte(s), 0)
	if len(payload) > 255 {
		return fmt.Errorf("tag: %s payload too long (%d bytes, max 255)", id, len(payload))
	}
	t.entries[id] = payload
	return nil
}

// String returns a string-valued field's value, with the trailing NUL
// stripped.
func (t *Tag) String(id ID) (string, bool) {
	payload, ok := t.entries[id]
	if !ok || len(payload) == 0 {
		return "", false
	}
	return string(payload[:len(payload)-1]), true
}

// SetUint16 sets an integer-valued field (year, track_number,
// track_count, disc, rate).
func (t *Tag) SetUint16(id ID, v uint16) error {
	if !integerIDs[id] {
		return fmt.Errorf("tag: %s is not an integer field", id)
	}
	t.entries[id] = []byte{byte(v), byte(v >> 8)}
	return nil
}

// Uint16 returns an integer-valued field's value.
func (t *Tag) Uint16(id ID) (uint16, bool) {
	payload, ok := t.entries[id]
	if !ok || len(payload) != 2 {
		return 0, false
	}
	return uint16(payload[0]) | uint16(payload[1])<<8, true
}

// SetPicture sets the raw picture payload. Like every tag entry its size
// is an 8-bit field, so data must be 255 bytes or smaller.
func (t *Tag) SetPicture(data []byte) error {
	if len(data) > 255 {
		return fmt.Errorf("tag: picture payload too long (%d bytes, max 255)", len(data))
	}
	t.entries[Picture] = append([]byte(nil), data...)
	return nil
}

// Picture returns the raw picture payload, if present.
func (t *Tag) Picture() ([]byte, bool) {
	payload, ok := t.entries[Picture]
	return payload, ok
}

// Empty reports whether the tag has no entries, in which case Write
// emits only the absent-flag byte.
func (t *Tag) Empty() bool {
	return len(t.entries) == 0
}

// Write emits the tag record: a present-flag byte, then (if present) an
// entry count and the entries themselves in ascending ID order for a
// deterministic encoding.
func Write(w io.Writer, t *Tag) error {
	if t == nil || t.Empty() {
		_, err := w.Write([]byte{0})
		return err
	}

	ids := make([]ID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sortIDs(ids)

	if _, err := w.Write([]byte{1, byte(len(ids))}); err != nil {
		return err
	}
	for _, id := range ids {
		payload := t.entries[id]
		if _, err := w.Write([]byte{byte(id), byte(len(payload))}); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// Read parses a tag record from r. It returns an empty (not nil) Tag
// when the present-flag is unset. Unknown IDs are skipped by their
// declared size, per spec §4.8's forward-compatibility rule.
func Read(r io.Reader) (*Tag, error) {
	var present [1]byte
	if _, err := io.ReadFull(r, present[:]); err != nil {
		return nil, err
	}
	if present[0] == 0 {
		return New(), nil
	}

	var count [1]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return nil, err
	}

	t := New()
	for i := 0; i < int(count[0]); i++ {
		var head [2]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}
		id := ID(head[0])
		size := int(head[1])
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		if !id.known() {
			continue
		}
		t.entries[id] = payload
	}
	return t, nil
}

func (id ID) known() bool {
	return id >= Title && id <= Picture
}

func sortIDs(ids []ID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
