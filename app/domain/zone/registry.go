// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package zone maintains the mapping from container UUID to kernel
// instance id and detects zone restarts mid-request (spec §4.6).
package zone

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ccoveille/go-safecast"
	"github.com/google/uuid"

	"github.com/joyent/triton-cmon-agent/app/domain/acquire"
	"github.com/joyent/triton-cmon-agent/app/domain/kstat"
	"github.com/joyent/triton-cmon-agent/app/domain/metric"
)

// GlobalZonename is the distinguished zonename Lookup returns for target
// "gz".
const GlobalZonename = "global"

const roleTagKey = "smartdc_role"

// VMInfo is the subset of a VM's record the registry needs to decide
// whether it is a core service zone and where its sidecars live.
type VMInfo struct {
	CustomerMetadata map[string]string
	Nics             []Nic
	OwnerUUID        string
	Tags             map[string]string
}

// Nic is one of a VM's network interfaces.
type Nic struct {
	IP      string
	Primary bool
	Nic     string // "admin", "external", etc.
}

// VMLoader loads a VM's record from the host's VM metadata store.
type VMLoader interface {
	VMLoad(ctx context.Context, uuid string, fields []string) (VMInfo, error)
}

// Record describes one zone known to the registry.
type Record struct {
	UUID       string
	Zonename   string
	InstanceID int
	IsCoreZone bool
	VM         VMInfo
}

// KstatInstance converts InstanceID to the unsigned form the kstat query
// contract requires (spec §3: "instanceId (nonnegative integer)"). A
// negative InstanceID reaching a collector is a corrupt registry entry,
// not a transient condition, so it is reported as Fatal rather than
// silently wrapped.
func (r Record) KstatInstance() (uint64, error) {
	n, err := safecast.Convert[uint64](r.InstanceID)
	if err != nil {
		return 0, metric.NewError(metric.KindFatal, fmt.Errorf("zone: record %q: %w", r.Zonename, err))
	}
	return n, nil
}

// Registry holds the current UUID-to-zone mapping. The zero value is not
// usable; use New.
type Registry struct {
	zones   atomic.Pointer[map[string]Record]
	running atomic.Bool

	enumerator  *acquire.ZoneEnumerator
	vmLoader    VMLoader
	kstatReader kstat.Reader
	adminUUID   string
}

// New constructs a Registry. adminUUID is the UFDS admin user's UUID
// (spec §6 config); a zone is a core zone only when owned by this user and
// bearing the smartdc_role tag.
func New(lister acquire.ZoneLister, vmLoader VMLoader, kstatReader kstat.Reader, adminUUID string) *Registry {
	return &Registry{
		enumerator:  acquire.NewZoneEnumerator(lister),
		vmLoader:    vmLoader,
		kstatReader: kstatReader,
		adminUUID:   adminUUID,
	}
}

// Running reports whether at least one Refresh has completed successfully.
func (r *Registry) Running() bool { return r.running.Load() }

// Refresh re-enumerates running zones and atomically replaces the
// registry's contents. A failure leaves the previous snapshot in place.
func (r *Registry) Refresh(ctx context.Context) error {
	listings, err := r.enumerator.Containers(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]Record, len(listings))
	for _, zl := range listings {
		vm, err := r.vmLoader.VMLoad(ctx, zl.UUID, []string{"customer_metadata", "nics", "owner_uuid", "tags"})
		if err != nil {
			// A single unreadable VM record must not block the whole
			// registry refresh; its zone is simply not core-eligible.
			next[zl.UUID] = Record{UUID: zl.UUID, Zonename: zl.UUID, InstanceID: zl.ZoneID}
			continue
		}

		_, hasRoleTag := vm.Tags[roleTagKey]
		next[zl.UUID] = Record{
			UUID:       zl.UUID,
			Zonename:   zl.UUID,
			InstanceID: zl.ZoneID,
			IsCoreZone: vm.OwnerUUID == r.adminUUID && hasRoleTag,
			VM:         vm,
		}
	}

	r.zones.Store(&next)
	r.running.Store(true)
	return nil
}

// Lookup resolves target ("gz" or a zone UUID) to its current Record.
// Returns a NotFound-kind error when target is neither "gz" nor a
// well-formed UUID, or is a UUID not currently known to the registry: the
// HTTP layer (spec §6) consumes this directly, so a malformed target never
// reaches the map lookup below.
func (r *Registry) Lookup(target string) (Record, error) {
	if target == "gz" {
		return Record{Zonename: GlobalZonename, InstanceID: 0, IsCoreZone: true}, nil
	}
	if _, err := uuid.Parse(target); err != nil {
		return Record{}, metric.NewError(metric.KindNotFound, fmt.Errorf("target %q is not \"gz\" or a valid UUID", target))
	}

	snapshot := r.zones.Load()
	if snapshot == nil {
		return Record{}, metric.NewError(metric.KindNotFound, fmt.Errorf("zone registry not yet populated"))
	}
	rec, ok := (*snapshot)[target]
	if !ok {
		return Record{}, metric.NewError(metric.KindNotFound, fmt.Errorf("zone %q not found", target))
	}
	return rec, nil
}

// Verify re-resolves the instance id for rec.Zonename by scanning zone_misc
// kstats and reports true only when both the zonename and instance id
// still match rec. Kernel zonenames are truncated to 30 characters in the
// kstat's name field, so the comparison must use the full zonename carried
// in the kstat's data, never the kstat name itself.
func (r *Registry) Verify(ctx context.Context, rec Record) (bool, error) {
	if rec.Zonename == GlobalZonename {
		return true, nil
	}

	records, err := r.kstatReader.Read(ctx, kstat.Query{Class: "zone_misc", Module: "zones"})
	if err != nil {
		return false, err
	}
	for _, kr := range records {
		zonename, ok := kr.Data["zonename"].(string)
		if !ok || zonename != rec.Zonename {
			continue
		}
		return kr.Instance == rec.InstanceID, nil
	}
	return false, nil
}
