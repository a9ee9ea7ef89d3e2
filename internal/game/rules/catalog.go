package rules

import (
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/cardroom/internal/platform/errors"
)

// Entry is one registered variant: its descriptor, the machine compiled from
// it, and its hook implementations.
type Entry struct {
	Descriptor VariantDescriptor
	Machine    *Machine
	Flow       FlowExtension
	Evaluator  HandEvaluator
}

// Catalog is the process-wide variant registry. Registration is append-only
// during initialization; after Freeze the catalog is immutable and lookups
// are lock-free reads.
type Catalog struct {
	mu      sync.Mutex
	frozen  bool
	entries map[string]Entry
}

// NewCatalog returns an empty, unfrozen catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds a variant to the catalog. It fails with a DuplicateVariant
// error when the code is already registered, and panics when called after
// Freeze, which is a wiring bug.
func (c *Catalog) Register(desc VariantDescriptor, flow FlowExtension, eval HandEvaluator) error {
	code := strings.TrimSpace(desc.Code)
	if code == "" {
		return fmt.Errorf("variant code is required")
	}
	if flow == nil {
		return fmt.Errorf("variant %s: flow extension is required", code)
	}
	if eval == nil {
		return fmt.Errorf("variant %s: hand evaluator is required", code)
	}

	if desc.SkipsAnte != flow.SkipsAnteCollection() {
		return fmt.Errorf("variant %s: descriptor SkipsAnte disagrees with the flow extension", code)
	}
	if desc.InlineShowdown != flow.SupportsInlineShowdown() {
		return fmt.Errorf("variant %s: descriptor InlineShowdown disagrees with the flow extension", code)
	}
	if desc.ChipCoverage != flow.RequiresChipCoverageCheck() {
		return fmt.Errorf("variant %s: descriptor ChipCoverage disagrees with the flow extension", code)
	}

	machine, err := NewMachine(desc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic(fmt.Sprintf("rules: Register(%s) called after Freeze", code))
	}
	if _, exists := c.entries[code]; exists {
		return errors.WithMetadata(
			errors.CodeDuplicateVariant,
			fmt.Sprintf("variant %s is already registered", code),
			map[string]string{"variant": code},
		)
	}
	c.entries[code] = Entry{
		Descriptor: desc,
		Machine:    machine,
		Flow:       flow,
		Evaluator:  eval,
	}
	return nil
}

// Freeze marks the end of registration. Afterwards the catalog never
// mutates, so Lookup needs no synchronization.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Lookup returns the registered entry for the variant code. It fails with an
// UnknownVariant error when the code is not registered.
func (c *Catalog) Lookup(code string) (Entry, error) {
	entry, ok := c.entries[code]
	if !ok {
		return Entry{}, errors.WithMetadata(
			errors.CodeUnknownVariant,
			fmt.Sprintf("variant %s is not registered", code),
			map[string]string{"variant": code},
		)
	}
	return entry, nil
}

// Codes returns the registered variant codes in no particular order.
func (c *Catalog) Codes() []string {
	out := make([]string, 0, len(c.entries))
	for code := range c.entries {
		out = append(out, code)
	}
	return out
}
