package rope

// CharIdx is a zero-based Unicode scalar (rune) index into a Rope's content,
// as opposed to ByteOffset which is a byte position. The core editing engine
// addresses content by CharIdx; ByteOffset remains the rope's on-disk/wire
// unit. Scalar counts are tracked in TextSummary.Chars alongside Bytes, so
// CharIdx<->ByteOffset conversion descends the tree rather than re-walking
// the whole rope on every call.
type CharIdx uint64

// LenChars returns the number of Unicode scalar values in the rope. Reads
// the root summary directly; O(1).
func (r Rope) LenChars() CharIdx {
	if r.root == nil {
		return 0
	}
	return r.root.LenChars()
}

// LenBytes is an alias for Len with the CharIdx-oriented naming used by the
// rest of the engine.
func (r Rope) LenBytes() ByteOffset { return r.Len() }

// LenLines is an alias for LineCount with the CharIdx-oriented naming used
// by the rest of the engine.
func (r Rope) LenLines() uint32 { return r.LineCount() }

// CharToByte converts a CharIdx to the corresponding ByteOffset by
// descending the summary tree, consulting childSummaries[i].Chars to skip
// whole subtrees, and only scanning runes within the one leaf chunk that
// contains idx. Out-of-range indices are clamped to the rope's length.
func (r Rope) CharToByte(idx CharIdx) ByteOffset {
	if r.root == nil || idx == 0 {
		return 0
	}
	if idx >= r.root.LenChars() {
		return r.Len()
	}

	node := r.root
	var byteBase ByteOffset
	for !node.IsLeaf() {
		i, rem := node.findChildByChars(idx)
		for j := 0; j < i; j++ {
			byteBase += node.childSummaries[j].Bytes
		}
		node = node.children[i]
		idx = rem
	}
	return byteBase + leafCharToByte(node, idx)
}

// leafCharToByte finds the byte offset of the idx'th scalar within a leaf
// node's chunks, using each chunk's precomputed Chars count to skip whole
// chunks before scanning runes in the one that contains idx.
func leafCharToByte(n *Node, idx CharIdx) ByteOffset {
	var byteOff ByteOffset
	var seen CharIdx
	for _, chunk := range n.chunks {
		s := chunk.String()
		chunkChars := CharIdx(chunk.Summary().Chars)
		if seen+chunkChars > idx {
			target := idx - seen
			var local CharIdx
			for bi := range s {
				if local == target {
					return byteOff + ByteOffset(bi)
				}
				local++
			}
			return byteOff + ByteOffset(len(s))
		}
		seen += chunkChars
		byteOff += ByteOffset(len(s))
	}
	return byteOff
}

// ByteToChar converts a ByteOffset to the corresponding CharIdx, descending
// the summary tree the same way CharToByte does in reverse. Out-of-range
// offsets are clamped to the rope's length.
func (r Rope) ByteToChar(off ByteOffset) CharIdx {
	if r.root == nil || off == 0 {
		return 0
	}
	if off >= r.Len() {
		return r.root.LenChars()
	}

	node := r.root
	var charBase CharIdx
	for !node.IsLeaf() {
		i, rem := node.findChildByOffset(off)
		for j := 0; j < i; j++ {
			charBase += CharIdx(node.childSummaries[j].Chars)
		}
		node = node.children[i]
		off = rem
	}
	return charBase + leafByteToChar(node, off)
}

// leafByteToChar finds the scalar index of the byte at off within a leaf
// node's chunks, skipping whole chunks by their precomputed Chars count.
func leafByteToChar(n *Node, off ByteOffset) CharIdx {
	var charBase CharIdx
	var byteSeen ByteOffset
	for _, chunk := range n.chunks {
		s := chunk.String()
		chunkLen := ByteOffset(len(s))
		if byteSeen+chunkLen > off {
			target := int(off - byteSeen)
			var count CharIdx
			for bi := range s {
				if bi >= target {
					break
				}
				count++
			}
			return charBase + count
		}
		charBase += CharIdx(chunk.Summary().Chars)
		byteSeen += chunkLen
	}
	return charBase
}

// LineToChar returns the CharIdx of the first scalar on the given 0-indexed line.
func (r Rope) LineToChar(line uint32) CharIdx {
	return r.ByteToChar(r.LineStartOffset(line))
}

// SliceChars returns the text between two CharIdx positions.
func (r Rope) SliceChars(start, end CharIdx) string {
	return r.Slice(r.CharToByte(start), r.CharToByte(end))
}

// InsertChars inserts text at a CharIdx position, returning the new rope.
func (r Rope) InsertChars(idx CharIdx, text string) Rope {
	return r.Insert(r.CharToByte(idx), text)
}

// DeleteChars removes the scalars in [start, end), returning the new rope.
func (r Rope) DeleteChars(start, end CharIdx) Rope {
	return r.Delete(r.CharToByte(start), r.CharToByte(end))
}
