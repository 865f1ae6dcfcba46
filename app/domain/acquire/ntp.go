// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"context"
	"math/bits"
	"strconv"
	"strings"
)

// PeerState is the numeric encoding of an NTP peer's "flash" character
// (spec §4.3.1).
type PeerState int

const (
	PeerStateInvalid PeerState = iota
	PeerStateFalseticker
	PeerStateOverflow
	PeerStatePruned
	PeerStateCandidate
	PeerStateBackup
	PeerStateSyspeer
	PeerStatePPS
	PeerStateUnknown PeerState = -1
)

// PeerFlashState translates one ntpq flash character to its numeric peer
// state (spec §4.3.1).
func PeerFlashState(flash byte) PeerState {
	switch flash {
	case ' ':
		return PeerStateInvalid
	case 'x':
		return PeerStateFalseticker
	case '.':
		return PeerStateOverflow
	case '-':
		return PeerStatePruned
	case '+':
		return PeerStateCandidate
	case '#':
		return PeerStateBackup
	case '*':
		return PeerStateSyspeer
	case 'o':
		return PeerStatePPS
	default:
		return PeerStateUnknown
	}
}

// PeerReachFailures reinterprets an 8-bit reach byte as the count of failed
// polls in the last 8 (the count of zero bits).
func PeerReachFailures(reach uint8) int {
	return 8 - bits.OnesCount8(reach)
}

// valueKind controls how a "key: value" line's value is converted.
type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindLeapIndicator
	kindNTPTimestamp
	kindFlash
	kindReach
)

// fieldKinds is the fixed mapping of known keys to their conversion kind;
// any key absent from this map is kept as a string.
var fieldKinds = map[string]valueKind{
	"offset": kindNumber, "delay": kindNumber, "dispersion": kindNumber,
	"jitter": kindNumber, "frequency": kindNumber, "stability": kindNumber,
	"rootdelay": kindNumber, "rootdisp": kindNumber, "sys_jitter": kindNumber,
	"clk_jitter": kindNumber, "clk_wander": kindNumber, "precision": kindNumber,
	"stratum": kindNumber, "poll": kindNumber, "hpoll": kindNumber, "ppoll": kindNumber,
	"associd": kindNumber, "srcport": kindNumber, "dstport": kindNumber,
	"leap": kindLeapIndicator,
	"reftime": kindNTPTimestamp, "reftime2": kindNTPTimestamp, "rec": kindNTPTimestamp,
	"org": kindNTPTimestamp, "xmt": kindNTPTimestamp,
	"flash": kindFlash,
	"reach": kindReach,
}

// Field is one converted "key: value" pair.
type Field struct {
	Raw   string
	Value any // string, float64, PeerState, or int64 depending on kind
}

// Output is the normalized form of one NTP reader invocation.
type Output struct {
	Available bool
	System    map[string]Field
	SysPeer   map[string]Field
	Peers     map[int]map[string]Field
}

// connectionRefused is the literal stderr text ntpq emits when ntpd is not
// running (spec §4.3).
const connectionRefused = "Connection refused"

// Reader invokes the NTP query tool and parses its output into Output.
type Reader struct {
	Execer NtpqExecer
}

// NewReader constructs a Reader over the given collaborator.
func NewReader(execer NtpqExecer) *Reader {
	return &Reader{Execer: execer}
}

// Read runs the full command sequence: apeers, then iostats, kerninfo,
// monstats, sysinfo, sysstats, then readvar <syspeer-assid> if a system
// peer was found in apeers.
func (r *Reader) Read(ctx context.Context) (*Output, error) {
	out := &Output{System: map[string]Field{}, Peers: map[int]map[string]Field{}}

	apeers, stderr, err := r.Execer.NtpqExec(ctx, "-n", "-c", "apeers")
	if strings.Contains(stderr, connectionRefused) {
		return &Output{Available: false}, nil
	}
	if err != nil {
		return nil, err
	}
	out.Available = true

	syspeerAssid, parseErr := parseAssociations(apeers, out)
	if parseErr != nil {
		return nil, parseErr
	}

	for _, cmd := range []string{"iostats", "kerninfo", "monstats", "sysinfo", "sysstats"} {
		stdout, _, err := r.Execer.NtpqExec(ctx, "-n", "-c", cmd)
		if err != nil {
			return nil, err
		}
		parseKeyValueBlock(stdout, 0, out)
	}

	if syspeerAssid != 0 {
		stdout, _, err := r.Execer.NtpqExec(ctx, "-n", "-c", "readvar "+strconv.Itoa(syspeerAssid))
		if err != nil {
			return nil, err
		}
		parseKeyValueBlock(stdout, syspeerAssid, out)
		out.SysPeer = out.Peers[syspeerAssid]
	}

	return out, nil
}

// parseAssociations reads the apeers table: one peer per line, columns
// "ind assid status conf reach flash offer delay offset disp" separated by
// whitespace. Returns the association id of the system peer, if any.
func parseAssociations(apeers string, out *Output) (int, error) {
	const (
		colAssid = 1
		colReach = 4
		colFlash = 5
	)
	syspeerAssid := 0
	for _, line := range strings.Split(apeers, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "ind") || strings.HasPrefix(line, "=") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) <= colFlash {
			continue
		}
		assidStr, flashStr, reachStr := cols[colAssid], cols[colFlash], cols[colReach]
		assid, err := strconv.Atoi(assidStr)
		if err != nil {
			continue
		}
		var flash byte = ' '
		if len(flashStr) > 0 {
			flash = flashStr[0]
		}
		state := PeerFlashState(flash)

		peer := map[string]Field{
			"assid": {Raw: assidStr, Value: float64(assid)},
			"flash": {Raw: flashStr, Value: state},
		}
		if reach, err := strconv.ParseUint(reachStr, 8, 8); err == nil {
			peer["reach"] = Field{Raw: reachStr, Value: PeerReachFailures(uint8(reach))}
		}
		out.Peers[assid] = peer
		if state == PeerStateSyspeer {
			syspeerAssid = assid
		}
	}
	return syspeerAssid, nil
}

// parseKeyValueBlock routes every "key: value" line in block to the system
// map (assid 0) or the peer map for assid, tracking context switches on
// lines of the form "associd: N".
func parseKeyValueBlock(block string, assid int, out *Output) {
	context := assid
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		field := convertField(key, value)

		if key == "associd" {
			if n, ok := field.Value.(float64); ok {
				context = int(n)
				if _, exists := out.Peers[context]; !exists {
					out.Peers[context] = map[string]Field{}
				}
			}
		}

		if context == 0 {
			out.System[key] = field
		} else {
			if out.Peers[context] == nil {
				out.Peers[context] = map[string]Field{}
			}
			out.Peers[context][key] = field
		}
	}
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

func convertField(key, value string) Field {
	kind := fieldKinds[key]
	switch kind {
	case kindNumber:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return Field{Raw: value, Value: n}
		}
	case kindLeapIndicator:
		if n, err := strconv.ParseInt(value, 2, 64); err == nil {
			return Field{Raw: value, Value: n}
		}
	case kindNTPTimestamp:
		if secs, ok := parseNTPTimestamp(value); ok {
			return Field{Raw: value, Value: secs}
		}
	case kindFlash:
		var flash byte = ' '
		if len(value) > 0 {
			flash = value[0]
		}
		return Field{Raw: value, Value: PeerFlashState(flash)}
	case kindReach:
		if n, err := strconv.ParseUint(value, 8, 8); err == nil {
			return Field{Raw: value, Value: PeerReachFailures(uint8(n))}
		}
	}
	return Field{Raw: value, Value: value}
}

// ntpEpochOffset is the number of seconds between the NTP epoch (1900) and
// the Unix epoch (1970).
const ntpEpochOffset = 2208988800

// parseNTPTimestamp converts a "<hex-seconds>.<hex-fraction>" NTP
// timestamp into seconds since the Unix epoch.
func parseNTPTimestamp(value string) (float64, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return 0, false
	}
	secs, err := strconv.ParseUint(parts[0], 16, 64)
	if err != nil {
		return 0, false
	}
	frac, err := strconv.ParseUint(parts[1], 16, 64)
	if err != nil {
		return 0, false
	}
	fracSeconds := float64(frac) / 4294967296.0 // 2^32
	return float64(secs) - ntpEpochOffset + fracSeconds, true
}
