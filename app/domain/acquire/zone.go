// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package acquire

import "context"

// ZoneEnumerator lists the non-global zones configured on the host.
type ZoneEnumerator struct {
	Lister ZoneLister
}

// NewZoneEnumerator constructs a ZoneEnumerator over the given collaborator.
func NewZoneEnumerator(lister ZoneLister) *ZoneEnumerator {
	return &ZoneEnumerator{Lister: lister}
}

// Containers returns every zone except the global zone (zoneid 0), which is
// handled by callers as a distinguished target rather than a list member.
func (z *ZoneEnumerator) Containers(ctx context.Context) ([]ZoneListing, error) {
	all, err := z.Lister.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ZoneListing, 0, len(all))
	for _, zl := range all {
		if zl.ZoneID == 0 {
			continue
		}
		out = append(out, zl)
	}
	return out, nil
}
