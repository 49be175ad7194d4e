package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/moduel/propdash/internal/apperr"
)

// Chain names.
const (
	ChainScrape   = "scrape"
	ChainProcess  = "process"
	ChainAnalysis = "analysis"
	// ChainFull runs scrape, process and analysis in that order; it is what a
	// detected league triggers.
	ChainFull = "full"
)

// CatalogConfig lists the command lines of each stage.
type CatalogConfig struct {
	Dir              string
	Timeout          time.Duration
	ScrapeCommands   []string
	ProcessCommands  []string
	AnalysisCommands []string
}

// Catalog resolves chain names to step lists.
type Catalog struct {
	chains map[string][]Step
}

// NewCatalog builds command steps for every chain.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	build := func(stage string, lines []string) ([]Step, error) {
		steps := make([]Step, 0, len(lines))
		for _, line := range lines {
			step, err := NewCommandStep(line, cfg.Dir, cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%s chain: %w", stage, err)
			}
			steps = append(steps, step)
		}
		return steps, nil
	}

	scrape, err := build(ChainScrape, cfg.ScrapeCommands)
	if err != nil {
		return nil, err
	}
	process, err := build(ChainProcess, cfg.ProcessCommands)
	if err != nil {
		return nil, err
	}
	analysis, err := build(ChainAnalysis, cfg.AnalysisCommands)
	if err != nil {
		return nil, err
	}

	return NewCatalogFromSteps(map[string][]Step{
		ChainScrape:   scrape,
		ChainProcess:  process,
		ChainAnalysis: analysis,
	}), nil
}

// NewCatalogFromSteps builds a catalog from prepared steps. The full chain is
// derived from the scrape, process and analysis stages unless given.
func NewCatalogFromSteps(stages map[string][]Step) *Catalog {
	chains := make(map[string][]Step, len(stages)+1)
	for name, steps := range stages {
		chains[name] = steps
	}
	if _, ok := chains[ChainFull]; !ok {
		var full []Step
		for _, name := range []string{ChainScrape, ChainProcess, ChainAnalysis} {
			full = append(full, stages[name]...)
		}
		chains[ChainFull] = full
	}
	return &Catalog{chains: chains}
}

// Chain returns the named chain. Unknown names are a bad request.
func (c *Catalog) Chain(name string) (Chain, error) {
	steps, ok := c.chains[name]
	if !ok {
		return Chain{}, apperr.BadRequest(fmt.Sprintf("unknown chain %q", name))
	}
	return Chain{Name: name, Steps: steps}, nil
}

// Names lists the available chains.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.chains))
	for name := range c.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
