package circuit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	grover "github.com/maxjeanfavre/grover"
	"github.com/maxjeanfavre/grover/logger"
)

// body is the CBOR-encoded payload; the envelope wraps it with the module
// version and a fingerprint so a corrupted or truncated artifact is detected
// before the gate list is decoded.
type body struct {
	NbQubits int    `cbor:"n"`
	Gates    []Gate `cbor:"g"`
}

type envelope struct {
	GroverVersion string `cbor:"v"`
	Fingerprint   []byte `cbor:"f"`
	Body          []byte `cbor:"b"`
}

// WriteTo serializes the circuit; it implements io.WriterTo.
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	raw, err := cbor.Marshal(body{NbQubits: c.nbQubits, Gates: c.gates})
	if err != nil {
		return 0, fmt.Errorf("serializing gate list: %w", err)
	}
	sum := blake2b.Sum256(raw)
	env := envelope{
		GroverVersion: grover.Version.String(),
		Fingerprint:   sum[:],
		Body:          raw,
	}
	var buf bytes.Buffer
	if err := cbor.NewEncoder(&buf).Encode(env); err != nil {
		return 0, fmt.Errorf("serializing envelope: %w", err)
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ReadFrom deserializes a circuit written by WriteTo; it implements
// io.ReaderFrom. A fingerprint mismatch is an error; a module version
// mismatch is only logged, there are no guarantees on compatibility.
func (c *Circuit) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return int64(len(data)), fmt.Errorf("deserializing envelope: %w", err)
	}

	objectVersion, err := semver.Parse(env.GroverVersion)
	if err != nil {
		return int64(len(data)), fmt.Errorf("when parsing grover version: %w", err)
	}
	if grover.Version.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", grover.Version.String()).Str("object", objectVersion.String()).Msg("grover version (binary) mismatch with serialized circuit. there are no guarantees on compatibility")
	}

	sum := blake2b.Sum256(env.Body)
	if !bytes.Equal(sum[:], env.Fingerprint) {
		return int64(len(data)), fmt.Errorf("circuit fingerprint mismatch: artifact is corrupted")
	}

	var b body
	if err := cbor.Unmarshal(env.Body, &b); err != nil {
		return int64(len(data)), fmt.Errorf("deserializing gate list: %w", err)
	}
	if b.NbQubits < 1 {
		return int64(len(data)), fmt.Errorf("serialized circuit has invalid register size %d", b.NbQubits)
	}
	c.nbQubits = b.NbQubits
	c.gates = b.Gates
	return int64(len(data)), nil
}

// Fingerprint returns the blake2b-256 digest of the serialized gate list.
func (c *Circuit) Fingerprint() ([32]byte, error) {
	raw, err := cbor.Marshal(body{NbQubits: c.nbQubits, Gates: c.gates})
	if err != nil {
		return [32]byte{}, fmt.Errorf("serializing gate list: %w", err)
	}
	return blake2b.Sum256(raw), nil
}
