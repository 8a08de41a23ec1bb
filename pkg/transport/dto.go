package transport

import (
	"encoding/hex"
	"errors"

	"github.com/marmos91/sequencer/pkg/sequencer"
)

var errInvalidStreamIDLength = errors.New("stream id must decode to exactly 16 bytes")

// tokenRequestDTO is the wire shape of spec.md §6's TokenRequest. Stream
// identifiers travel as hex-encoded strings over JSON since a raw
// [16]byte array does not have a natural JSON representation.
type tokenRequestDTO struct {
	NumTokens       uint32   `json:"num_tokens" validate:"gte=0"`
	Streams         []string `json:"streams,omitempty"`
	Overwrite       bool     `json:"overwrite,omitempty"`
	ReplexOverwrite bool     `json:"replex_overwrite,omitempty"`
	TxnResolution   bool     `json:"txn_resolution,omitempty"`
	ReadTimestamp   int64    `json:"read_timestamp,omitempty"`
	ReadSet         []string `json:"read_set,omitempty"`
	ConflictKeys    []string `json:"conflict_keys,omitempty"`
}

// tokenResponseDTO is the wire shape of spec.md §6's TokenResponse.
type tokenResponseDTO struct {
	Token          int64            `json:"token"`
	Aborted        bool             `json:"aborted"`
	BackpointerMap map[string]int64 `json:"backpointer_map,omitempty"`
	StreamTokens   map[string]int64 `json:"stream_tokens,omitempty"`
}

func decodeStreamID(s string) (sequencer.StreamID, error) {
	var id sequencer.StreamID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, errInvalidStreamIDLength
	}
	copy(id[:], b)
	return id, nil
}

func encodeStreamID(id sequencer.StreamID) string {
	return hex.EncodeToString(id[:])
}

// toDomainRequest converts the wire DTO to a sequencer.TokenRequest,
// rejecting any stream identifier that fails to decode before the request
// ever reaches the allocator.
func (dto tokenRequestDTO) toDomainRequest() (sequencer.TokenRequest, error) {
	req := sequencer.TokenRequest{
		NumTokens:       dto.NumTokens,
		Overwrite:       dto.Overwrite,
		ReplexOverwrite: dto.ReplexOverwrite,
		TxnResolution:   dto.TxnResolution,
		ReadTimestamp:   dto.ReadTimestamp,
	}

	if dto.Streams != nil {
		req.Streams = make(map[sequencer.StreamID]struct{}, len(dto.Streams))
		for _, s := range dto.Streams {
			id, err := decodeStreamID(s)
			if err != nil {
				return sequencer.TokenRequest{}, err
			}
			req.Streams[id] = struct{}{}
		}
	}

	if dto.ReadSet != nil {
		req.ReadSet = make(map[sequencer.StreamID]struct{}, len(dto.ReadSet))
		for _, s := range dto.ReadSet {
			id, err := decodeStreamID(s)
			if err != nil {
				return sequencer.TokenRequest{}, err
			}
			req.ReadSet[id] = struct{}{}
		}
	}

	for _, k := range dto.ConflictKeys {
		b, err := hex.DecodeString(k)
		if err != nil {
			return sequencer.TokenRequest{}, err
		}
		req.ConflictKeys = append(req.ConflictKeys, b)
	}

	return req, nil
}

func fromDomainResponse(resp sequencer.TokenResponse) tokenResponseDTO {
	dto := tokenResponseDTO{
		Token:   resp.Token,
		Aborted: resp.Aborted(),
	}

	if resp.BackpointerMap != nil {
		dto.BackpointerMap = make(map[string]int64, len(resp.BackpointerMap))
		for id, v := range resp.BackpointerMap {
			dto.BackpointerMap[encodeStreamID(id)] = v
		}
	}

	if resp.StreamTokens != nil {
		dto.StreamTokens = make(map[string]int64, len(resp.StreamTokens))
		for id, v := range resp.StreamTokens {
			dto.StreamTokens[encodeStreamID(id)] = v
		}
	}

	return dto
}
