package hashclock

import (
	"encoding/hex"

	"github.com/gibson042/canonicaljson-go"

	"github.com/revent-clocks/reclock/clockerr"
)

// jsonNode is the canonical-JSON representation of one node's sub-clock,
// hex-encoding the fixed-size byte fields the binary codec packs raw.
type jsonNode struct {
	NodeID   string `json:"node_id"`
	Lifetime int32  `json:"lifetime"`
	Time     int32  `json:"time"`
	UUID     string `json:"uuid"`
	Digest   string `json:"digest"`
}

type jsonVector struct {
	UUID  string     `json:"uuid"`
	Nodes []jsonNode `json:"nodes"`
}

// PackJSON encodes the vector as canonical, sorted-key JSON: a human-diffable
// alternative to Pack for logs and fixtures. The binary format from Pack
// remains the primary wire format; this is additive.
func (v *VectorHashClock) PackJSON() ([]byte, error) {
	if !v.setUp {
		return nil, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	doc := jsonVector{UUID: hex.EncodeToString(v.uuid[:])}
	for _, id := range v.order {
		clock := v.nodes[string(id)]
		node := jsonNode{NodeID: hex.EncodeToString(id), Lifetime: -1, Time: -1}
		if clock != nil {
			node.Lifetime = clock.lifetime
			node.Time = clock.time
			node.UUID = hex.EncodeToString(clock.uuid[:])
			node.Digest = hex.EncodeToString(clock.digest[:])
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	return canonicaljson.Marshal(doc)
}

// UnpackVectorJSON decodes a vector packed by PackJSON.
func UnpackVectorJSON(data []byte) (*VectorHashClock, error) {
	var doc jsonVector
	if err := canonicaljson.Unmarshal(data, &doc); err != nil {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("invalid JSON: %s", err))
	}

	uuidBytes, err := hex.DecodeString(doc.UUID)
	if err != nil {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("invalid uuid hex: %s", err))
	}

	order := make([][]byte, 0, len(doc.Nodes))
	nodes := make(map[string]*HashClock, len(doc.Nodes))
	for _, n := range doc.Nodes {
		id, err := hex.DecodeString(n.NodeID)
		if err != nil {
			return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("invalid node id hex: %s", err))
		}
		order = append(order, id)
		if n.UUID == "" && n.Digest == "" {
			nodes[string(id)] = nil
			continue
		}
		uuidNode, err := hex.DecodeString(n.UUID)
		if err != nil {
			return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("invalid node uuid hex: %s", err))
		}
		digest, err := hex.DecodeString(n.Digest)
		if err != nil {
			return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("invalid node digest hex: %s", err))
		}
		c := &HashClock{lifetime: n.Lifetime, time: n.Time, setUp: true}
		copy(c.uuid[:], uuidNode)
		copy(c.digest[:], digest)
		nodes[string(id)] = c
	}

	v := &VectorHashClock{order: order, nodes: nodes, setUp: true}
	copy(v.uuid[:], uuidBytes)
	return v, nil
}
