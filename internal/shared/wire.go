package shared

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeWireTx renders a WireTx as the broker's JSON array-of-objects
// frame, e.g. `[{"op":"retain","n":5},{"op":"insert","text":"hi"}]`.
// Built incrementally with sjson.Set rather than a struct-tagged
// encoding/json type, matching the rest of this package's wire handling.
func EncodeWireTx(tx WireTx) (string, error) {
	frame := "[]"
	var err error
	for i, op := range tx {
		path := fmt.Sprintf("%d", i)
		switch op.Kind {
		case WireRetain:
			frame, err = sjson.Set(frame, path+".op", "retain")
			if err != nil {
				return "", err
			}
			frame, err = sjson.Set(frame, path+".n", op.N)
		case WireInsert:
			frame, err = sjson.Set(frame, path+".op", "insert")
			if err != nil {
				return "", err
			}
			frame, err = sjson.Set(frame, path+".text", op.Text)
		case WireDelete:
			frame, err = sjson.Set(frame, path+".op", "delete")
			if err != nil {
				return "", err
			}
			frame, err = sjson.Set(frame, path+".n", op.N)
		}
		if err != nil {
			return "", err
		}
	}
	return frame, nil
}

// DecodeWireTx parses a broker wire-transaction frame back into a WireTx.
func DecodeWireTx(frame string) (WireTx, error) {
	arr := gjson.Parse(frame)
	if !arr.IsArray() {
		return nil, fmt.Errorf("%w: wire tx is not an array", ErrInvalidDelta)
	}
	var tx WireTx
	var parseErr error
	arr.ForEach(func(_, op gjson.Result) bool {
		switch op.Get("op").String() {
		case "retain":
			tx = append(tx, WireOp{Kind: WireRetain, N: int(op.Get("n").Int())})
		case "insert":
			tx = append(tx, WireOp{Kind: WireInsert, Text: op.Get("text").String()})
		case "delete":
			tx = append(tx, WireOp{Kind: WireDelete, N: int(op.Get("n").Int())})
		default:
			parseErr = fmt.Errorf("%w: unknown op %q", ErrInvalidDelta, op.Get("op").String())
			return false
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return tx, nil
}

// EncodeSharedEdit renders a SharedEditRequest as the full broker request
// frame a transport would send over the wire.
func EncodeSharedEdit(req SharedEditRequest) (string, error) {
	txFrame, err := EncodeWireTx(req.Tx)
	if err != nil {
		return "", err
	}
	frame := "{}"
	frame, err = sjson.Set(frame, "kind", "SharedEdit")
	if err != nil {
		return "", err
	}
	frame, err = sjson.Set(frame, "uri", req.URI)
	if err != nil {
		return "", err
	}
	frame, err = sjson.Set(frame, "epoch", uint64(req.Epoch))
	if err != nil {
		return "", err
	}
	frame, err = sjson.Set(frame, "base_seq", uint64(req.BaseSeq))
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(frame, "tx", txFrame)
}

// DecodeSnapshot parses a SharedOpened/SharedSnapshot broker frame into a
// DocStateSnapshot.
func DecodeSnapshot(frame string) DocStateSnapshot {
	r := gjson.Parse(frame)
	phase := PhaseOwned
	switch r.Get("phase").String() {
	case "unlocked":
		phase = PhaseUnlocked
	case "diverged":
		phase = PhaseDiverged
	}
	return DocStateSnapshot{
		Epoch:          SyncEpoch(r.Get("epoch").Uint()),
		Seq:            SyncSeq(r.Get("seq").Uint()),
		Owner:          SessionId(r.Get("owner").String()),
		PreferredOwner: SessionId(r.Get("preferred_owner").String()),
		Phase:          phase,
	}
}
