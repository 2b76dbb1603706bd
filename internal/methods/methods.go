// Package methods implements the RPC method catalog: control, query,
// subscribe, cover, scheduler, and the legacy query-string compatibility
// bridge, all wired into one dispatch.Registry.
package methods

import (
	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/cover"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/rating"
	"github.com/arung-agamani/aimpctl/internal/scheduler"
	"github.com/arung-agamani/aimpctl/internal/store"
)

// Deps bundles every collaborator a method handler may need. Built once
// at startup and passed to Register.
type Deps struct {
	Store     *store.Store
	Engine    player.Engine
	Broker    *broker.Broker
	Cover     *cover.Resolver
	Scheduler *scheduler.Scheduler
	Rating    *rating.Store

	EnablePhysicalTrackDeletion bool
}

// Register installs every method handler into reg.
func Register(reg *dispatch.Registry, deps Deps) {
	registerControlMethods(reg, deps)
	registerQueryMethods(reg, deps)
	registerSubscribeMethod(reg, deps)
	registerCoverMethod(reg, deps)
	registerSchedulerMethod(reg, deps)
	registerCompatMethod(reg, deps)
}
