// SPDX-License-Identifier: MIT

package packet

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// The largest payload a frame can carry: the decoder's scratch caps at
// MaxDataLen including the command and CRC bytes.
const maxFuzzPayload = MaxDataLen - 2

// randomPayload builds a payload with a healthy share of reserved bytes
// so escaping gets exercised, including adjacent pairs.
func randomPayload(rng *rand.Rand, size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		switch rng.Intn(4) {
		case 0:
			payload[i] = FrameByte
		case 1:
			payload[i] = EscByte
		default:
			payload[i] = byte(rng.Intn(256))
		}
	}
	return payload
}

// decodeStream feeds a whole byte stream through dec and returns the
// final status and whether ErrNone was seen at any point.
func decodeStream(dec *Decoder, stream []byte) (ErrorCode, bool) {
	status := ErrNotDone
	sawPacket := false
	for _, b := range stream {
		status = dec.DecodeByte(b)
		if status == ErrNone {
			sawPacket = true
		}
	}
	return status, sawPacket
}

func TestFuzz_EncodeDecodeRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	enc := NewEncoder()
	dec := NewDecoder(nil)

	for round := 0; round < rounds; round++ {
		cmd := uint8(rng.Intn(256))
		payload := randomPayload(rng, rng.Intn(maxFuzzPayload+1))

		enc.EncodeStart(NewPacket(cmd, payload))
		var frame []byte
		for {
			err, b := enc.EncodeByte()
			frame = append(frame, b)
			if err == ErrNone {
				break
			}
		}

		for i, b := range frame {
			err := dec.DecodeByte(b)
			if i+1 == len(frame) {
				if err != ErrNone {
					t.Fatalf("round %d: final status = %v, want NONE (cmd=0x%02X len=%d)",
						round, err, cmd, len(payload))
				}
			} else if err != ErrNotDone {
				t.Fatalf("round %d: byte %d status = %v, want NOT_DONE", round, i, err)
			}
		}

		pkt := dec.Packet()
		if pkt.Command() != cmd {
			t.Fatalf("round %d: command = 0x%02X, want 0x%02X", round, pkt.Command(), cmd)
		}
		if !bytes.Equal(pkt.Data(), payload) {
			t.Fatalf("round %d: payload mismatch (len %d vs %d)",
				round, pkt.DataLen(), len(payload))
		}
	}
}

func TestFuzz_SingleBitFlipNeverYieldsPacket(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	enc := NewEncoder()

	for round := 0; round < rounds; round++ {
		cmd := uint8(rng.Intn(256))
		payload := randomPayload(rng, rng.Intn(32))

		enc.EncodeStart(NewPacket(cmd, payload))
		var frame []byte
		for {
			err, b := enc.EncodeByte()
			frame = append(frame, b)
			if err == ErrNone {
				break
			}
		}

		// Flip one bit of an interior byte, avoiding mutations that
		// alter the framing itself: the corrupted byte must not be an
		// escape lead or follow one, and must not become a reserved
		// byte. Within those bounds the CRC must always catch it.
		idx := 1 + rng.Intn(len(frame)-2)
		mutated := frame[idx] ^ (1 << uint(rng.Intn(8)))
		if frame[idx] == EscByte || frame[idx-1] == EscByte ||
			mutated == FrameByte || mutated == EscByte {
			continue
		}

		stream := append([]byte(nil), frame...)
		stream[idx] = mutated

		dec := NewDecoder(nil)
		status, sawPacket := decodeStream(dec, stream)
		if sawPacket {
			t.Fatalf("round %d: corrupted frame decoded as valid (idx=%d, % 02x)",
				round, idx, stream)
		}
		if status != ErrCRC {
			t.Fatalf("round %d: final status = %v, want CRC (idx=%d)", round, status, idx)
		}
	}
}

func TestFuzz_GarbageNeverPanicsAndResyncs(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	dec := NewDecoder(nil)
	for round := 0; round < rounds; round++ {
		garbage := make([]byte, rng.Intn(512))
		for i := range garbage {
			garbage[i] = byte(rng.Intn(256))
		}
		decodeStream(dec, garbage)

		// A run of delimiters flushes whatever partial state the
		// garbage left behind (a pending escape needs one delimiter to
		// consume it and one to discard the frame), then a well-formed
		// frame must parse. The flush itself may report frame errors.
		for _, b := range []byte{FrameByte, FrameByte, FrameByte} {
			if err := dec.DecodeByte(b); err == ErrBadState {
				t.Fatalf("round %d: decoder wedged in bad state", round)
			}
		}
		pkt := parseFrameWith(t, dec, "01 02 03 48 c0", ErrNone)
		if pkt.Command() != 0x01 || !bytes.Equal(pkt.Data(), []byte{0x02, 0x03}) {
			t.Fatalf("round %d: failed to resync after garbage", round)
		}
	}
}
