package rope

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// multiLevelText builds a string long enough to force a multi-level tree
// (more than MaxChunksPerLeaf*MaxChildren chunks), mixing ASCII and
// multi-byte runes so byte and scalar counts diverge.
func multiLevelText() string {
	var sb strings.Builder
	unit := "hello, ‰∏ñÁïå! café \U0001F600 line\n"
	for i := 0; i < 400; i++ {
		sb.WriteString(unit)
	}
	return sb.String()
}

func TestLenCharsMatchesRuneCount(t *testing.T) {
	text := multiLevelText()
	r := FromString(text)

	if r.Height() < 2 {
		t.Fatalf("test text too short to exercise a multi-level tree, height=%d", r.Height())
	}

	want := CharIdx(utf8.RuneCountInString(text))
	if got := r.LenChars(); got != want {
		t.Fatalf("LenChars() = %d, want %d", got, want)
	}
}

func TestCharToByteAndBackRoundTrip(t *testing.T) {
	text := multiLevelText()
	r := FromString(text)

	// Collect the byte offset of every rune boundary the slow way.
	var boundaries []int
	for i := range text {
		boundaries = append(boundaries, i)
	}
	boundaries = append(boundaries, len(text))

	for idx, byteOff := range boundaries {
		gotByte := r.CharToByte(CharIdx(idx))
		if gotByte != ByteOffset(byteOff) {
			t.Fatalf("CharToByte(%d) = %d, want %d", idx, gotByte, byteOff)
		}
		gotChar := r.ByteToChar(ByteOffset(byteOff))
		if gotChar != CharIdx(idx) {
			t.Fatalf("ByteToChar(%d) = %d, want %d", byteOff, gotChar, idx)
		}
	}
}

func TestCharToByteOutOfRangeClamps(t *testing.T) {
	text := multiLevelText()
	r := FromString(text)

	if got := r.CharToByte(r.LenChars() + 1000); got != r.Len() {
		t.Fatalf("CharToByte(past end) = %d, want %d", got, r.Len())
	}
	if got := r.ByteToChar(r.Len() + 1000); got != r.LenChars() {
		t.Fatalf("ByteToChar(past end) = %d, want %d", got, r.LenChars())
	}
}

func TestSliceCharsAcrossChunkBoundaries(t *testing.T) {
	text := multiLevelText()
	r := FromString(text)
	runes := []rune(text)

	start, end := CharIdx(5), CharIdx(len(runes)-5)
	want := string(runes[start:end])
	got := r.SliceChars(start, end)
	if got != want {
		t.Fatalf("SliceChars mismatch: got %d runes, want %d runes", utf8.RuneCountInString(got), utf8.RuneCountInString(want))
	}
}

func TestInsertDeleteCharsWithMultibyteRunes(t *testing.T) {
	r := FromString("café 世界")
	// "café " is 5 runes (c,a,f,é,space); insert after the space.
	r2 := r.InsertChars(5, "日本 ")
	if got, want := r2.SliceChars(0, r2.LenChars()), "café 日本 世界"; got != want {
		t.Fatalf("InsertChars: got %q, want %q", got, want)
	}

	r3 := r2.DeleteChars(5, 5+CharIdx(utf8.RuneCountInString("日本 ")))
	if got, want := r3.String(), "café 世界"; got != want {
		t.Fatalf("DeleteChars: got %q, want %q", got, want)
	}
}
