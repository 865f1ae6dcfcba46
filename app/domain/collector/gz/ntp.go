// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package gz

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
	"github.com/joyent/triton-cmon-agent/app/domain/zone"
)

const ntpCollectorTTLSeconds = 10

// NtpCollector reports the host's NTP daemon and peer state (spec §4.3,
// §8 scenario 6). When ntpd is not running, it reports zero metric
// families rather than an error: a host legitimately running without NTP
// is not a collection failure.
type NtpCollector struct {
	Reader *acquire.Reader
}

// NewNtpCollector constructs an NtpCollector over the given reader.
func NewNtpCollector(reader *acquire.Reader) *NtpCollector {
	return &NtpCollector{Reader: reader}
}

func (n *NtpCollector) CacheTTLSeconds() int { return ntpCollectorTTLSeconds }

// EmptyOK is true: ntpd down is a legitimate reading, not missing data.
func (n *NtpCollector) EmptyOK() bool { return true }

func (n *NtpCollector) GetMetrics(ctx context.Context, zi zone.Record) ([]metric.Tuple, error) {
	out, err := n.Reader.Read(ctx)
	if err != nil {
		return nil, metric.NewError(metric.KindNotAvailable, err)
	}
	if !out.Available {
		return nil, nil
	}

	var tuples []metric.Tuple
	for key, field := range out.System {
		tuples = append(tuples, fieldTuple("ntp_system_"+key, field))
	}
	for key, field := range out.SysPeer {
		tuples = append(tuples, fieldTuple("ntp_syspeer_"+key, field))
	}

	assocIDs := make([]int, 0, len(out.Peers))
	for id := range out.Peers {
		assocIDs = append(assocIDs, id)
	}
	sort.Ints(assocIDs)
	for _, id := range assocIDs {
		label := fmt.Sprintf(`{assoc_id=%q}`, strconv.Itoa(id))
		for key, field := range out.Peers[id] {
			t := fieldTuple("ntp_peer_"+key, field)
			t.Label = label
			tuples = append(tuples, t)
		}
	}

	sortTuples(tuples)
	return tuples, nil
}

func fieldTuple(key string, field acquire.Field) metric.Tuple {
	return metric.Tuple{
		Key:   key,
		Type:  metric.TypeGauge,
		Value: fieldValueString(field),
		Help:  key,
	}
}

func fieldValueString(field acquire.Field) string {
	switch v := field.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case acquire.PeerState:
		return strconv.Itoa(int(v))
	default:
		return field.Raw
	}
}

// sortTuples imposes a stable (key,label) order so the serialized output is
// deterministic across requests, since out.System/out.Peers are Go maps.
func sortTuples(tuples []metric.Tuple) {
	sort.Slice(tuples, func(i, j int) bool {
		if tuples[i].Key != tuples[j].Key {
			return tuples[i].Key < tuples[j].Key
		}
		return tuples[i].Label < tuples[j].Label
	})
}
