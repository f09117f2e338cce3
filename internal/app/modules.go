package app

import (
	"github.com/vk/sectiongrid/internal/registry"
	"github.com/vk/sectiongrid/modules/capacity"
	"github.com/vk/sectiongrid/modules/layout"
	"github.com/vk/sectiongrid/modules/material"
	"github.com/vk/sectiongrid/modules/preload"
	"github.com/vk/sectiongrid/modules/rebar"
	"github.com/vk/sectiongrid/modules/spacing"
)

// coreModules is the definitive list of all modules that are compiled into
// the sectiongrid binary.
var coreModules = []registry.Module{
	&rebar.Module{},
	&spacing.Module{},
	&layout.Module{},
	&preload.Module{},
	&material.Module{},
	&capacity.Module{},
}
