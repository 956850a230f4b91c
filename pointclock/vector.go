package pointclock

import (
	"bytes"
	"sort"

	"github.com/revent-clocks/reclock/clockerr"
	"github.com/revent-clocks/reclock/codec"
	"github.com/revent-clocks/reclock/primitives"
	"github.com/revent-clocks/reclock/utils"
)

// VectorEntry is one node's contribution to a VectorTimestamp.
type VectorEntry struct {
	NodeID []byte
	Time   int32
	Point  [32]byte
}

// VectorTimestamp is a deterministic snapshot of a VectorPointClock: the
// vector's uuid plus every node's current state, in canonical node-id
// order.
type VectorTimestamp struct {
	VectorUUID [32]byte
	Entries    []VectorEntry
}

// NodeCertificate wraps an inner PointClock certificate with the node id it
// targets, the unit VectorPointClock.Update consumes.
type NodeCertificate struct {
	NodeID []byte
	Cert   Timestamp
}

// VectorPointClock composes per-node PointClocks, keyed by node id, into a
// single causality-tracking structure. Independently set-up PointClocks can
// be federated into one vector by supplying their uuids at Setup.
type VectorPointClock struct {
	uuid  [32]byte
	order [][]byte
	nodes map[string]*PointClock
	setUp bool
}

// DeriveVectorUUID canonically combines node uuids into a vector uuid:
// SHA-256 of the node uuids, sorted as unsigned big-endian byte strings and
// concatenated.
func DeriveVectorUUID(nodeUUIDs ...[]byte) [32]byte {
	sorted := make([][]byte, len(nodeUUIDs))
	copy(sorted, nodeUUIDs)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })

	var buf bytes.Buffer
	for _, u := range sorted {
		buf.Write(u)
	}
	return primitives.Hash(buf.Bytes())
}

// Setup registers the vector's node ids. uuids optionally supplies
// already-known per-node clock uuids (for federating independently set-up
// clocks); a node id omitted from uuids has its clock's uuid discovered
// lazily from the first certificate it receives.
func (v *VectorPointClock) Setup(vectorUUID [32]byte, nodeIDs [][]byte, uuids map[string][32]byte) error {
	if v.setUp {
		return clockerr.Wrap(clockerr.ErrAlreadySetUp)
	}
	if len(nodeIDs) == 0 {
		return clockerr.Wrap(clockerr.ErrEmptyNodeID.AddDetails("node id list is empty"))
	}

	order := make([][]byte, 0, len(nodeIDs))
	nodes := make(map[string]*PointClock, len(nodeIDs))
	seen := make(utils.Set[string], len(nodeIDs))
	for _, id := range nodeIDs {
		if len(id) == 0 {
			return clockerr.Wrap(clockerr.ErrEmptyNodeID)
		}
		key := string(id)
		if seen.Has(key) {
			return clockerr.Wrap(clockerr.ErrDuplicateNodeID.AddDetails("node id %x", id))
		}
		seen.Add(key)
		idCopy := append([]byte(nil), id...)
		order = append(order, idCopy)

		if knownUUID, ok := uuids[key]; ok {
			nodes[key] = NewObserverClock(knownUUID, -1)
		} else {
			nodes[key] = nil
		}
	}
	for key := range uuids {
		if _, known := nodes[key]; !known {
			return clockerr.Wrap(clockerr.ErrMismatchedUUIDsMap.AddDetails("node id %x not in vector", key))
		}
	}

	sort.Slice(order, func(i, j int) bool { return bytes.Compare(order[i], order[j]) < 0 })

	v.uuid = vectorUUID
	v.order = order
	v.nodes = nodes
	v.setUp = true
	return nil
}

// Advance wraps an inner certificate (obtained from the node's own
// PointClockUpdater) with the node id it targets.
func (v *VectorPointClock) Advance(nodeID []byte, cert Timestamp) NodeCertificate {
	return NodeCertificate{NodeID: nodeID, Cert: cert}
}

// Update dispatches a node certificate to that node's sub-clock. The first
// certificate ever seen for a node establishes that node's uuid, derived
// from the certificate itself, unless it was already supplied at Setup.
func (v *VectorPointClock) Update(cert NodeCertificate) error {
	if !v.setUp {
		return clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	key := string(cert.NodeID)
	clock, known := v.nodes[key]
	if !known {
		return clockerr.Wrap(clockerr.ErrUnknownNode)
	}
	if clock == nil {
		derivedUUID, err := primitives.RecursiveNextPoint(cert.Cert.Point, int(cert.Cert.Time)+1)
		if err != nil {
			return err
		}
		clock = NewObserverClock(derivedUUID, -1)
		v.nodes[key] = clock
	}
	return clock.Update(cert.Cert)
}

// Read returns a deterministic snapshot of every node's current state. A
// node whose uuid has not yet been established is reported at time -1 with
// a zero point.
func (v *VectorPointClock) Read() (VectorTimestamp, error) {
	if !v.setUp {
		return VectorTimestamp{}, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	entries := make([]VectorEntry, 0, len(v.order))
	for _, id := range v.order {
		clock := v.nodes[string(id)]
		entry := VectorEntry{NodeID: id, Time: -1}
		if clock != nil {
			entry.Time = clock.time
			entry.Point = clock.point
		}
		entries = append(entries, entry)
	}
	return VectorTimestamp{VectorUUID: v.uuid, Entries: entries}, nil
}

func sameEntryNodes(a, b VectorTimestamp) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if !bytes.Equal(a.Entries[i].NodeID, b.Entries[i].NodeID) {
			return false
		}
	}
	return true
}

// VectorHappensBefore implements the standard vector-clock partial order:
// every component of a is <= the corresponding component of b, and at least
// one is strictly less.
func VectorHappensBefore(a, b VectorTimestamp) bool {
	if a.VectorUUID != b.VectorUUID || !sameEntryNodes(a, b) {
		return false
	}
	strictlyLess := false
	for i := range a.Entries {
		if a.Entries[i].Time > b.Entries[i].Time {
			return false
		}
		if a.Entries[i].Time < b.Entries[i].Time {
			strictlyLess = true
		}
	}
	return strictlyLess
}

// VectorAreConcurrent reports whether neither timestamp happens-before the
// other and they are not equal.
func VectorAreConcurrent(a, b VectorTimestamp) bool {
	if a.VectorUUID != b.VectorUUID || !sameEntryNodes(a, b) {
		return false
	}
	if VectorHappensBefore(a, b) || VectorHappensBefore(b, a) {
		return false
	}
	for i := range a.Entries {
		if a.Entries[i].Time != b.Entries[i].Time {
			return true
		}
	}
	return false
}

// Pack encodes the vector per the wire format:
// tag || uuid(32) || node_count(u32) || [ node_id_len(u16) || node_id || inner_pack ]*.
// A node whose uuid is not yet established packs as a placeholder with
// lifetime sentinel 0xFFFFFFFF, time -1, and a zero uuid/point.
func (v *VectorPointClock) Pack() ([]byte, error) {
	if !v.setUp {
		return nil, clockerr.Wrap(clockerr.ErrNotYetSetUp)
	}
	w := codec.NewWriter(codec.TagVectorPointClock)
	w.PutBytes(v.uuid[:])
	w.PutUint32(uint32(len(v.order)))
	for _, id := range v.order {
		clock := v.nodes[string(id)]
		if clock == nil {
			clock = &PointClock{lifetime: -1, time: -1, setUp: true}
		}
		inner, err := clock.Pack()
		if err != nil {
			return nil, err
		}
		w.PutLenPrefixed16(id)
		w.PutBytes(inner)
	}
	return w.Bytes(), nil
}

// UnpackVector decodes a VectorPointClock packed by Pack.
func UnpackVector(data []byte) (*VectorPointClock, error) {
	r := codec.NewReader(data)
	if err := r.ReadTag(codec.TagVectorPointClock); err != nil {
		return nil, err
	}
	uuidBytes, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	order := make([][]byte, 0, count)
	nodes := make(map[string]*PointClock, count)
	for i := uint32(0); i < count; i++ {
		id, err := r.ReadLenPrefixed16()
		if err != nil {
			return nil, err
		}
		innerClock, consumed, err := unpackPointClockPrefix(r.RestBytes())
		if err != nil {
			return nil, err
		}
		if _, err := r.ReadBytes(consumed); err != nil {
			return nil, err
		}

		key := string(id)
		order = append(order, id)
		if innerClock.lifetime == -1 && innerClock.time == -1 &&
			innerClock.uuid == ([32]byte{}) && innerClock.point == ([32]byte{}) {
			nodes[key] = nil
		} else {
			nodes[key] = innerClock
		}
	}
	if !r.AtEnd() {
		return nil, clockerr.Wrap(clockerr.ErrBadFormat.AddDetails("trailing bytes after VectorPointClock payload"))
	}

	v := &VectorPointClock{order: order, nodes: nodes, setUp: true}
	copy(v.uuid[:], uuidBytes)
	return v, nil
}

func unpackPointClockPrefix(data []byte) (*PointClock, int, error) {
	const fixedLen = 1 + 4 + 4 + 32 + 32
	if len(data) < fixedLen {
		return nil, 0, clockerr.Wrap(clockerr.ErrTruncated.AddDetails("need %d bytes for inner PointClock, have %d", fixedLen, len(data)))
	}
	clock, err := Unpack(data[:fixedLen])
	if err != nil {
		return nil, 0, err
	}
	return clock, fixedLen, nil
}
