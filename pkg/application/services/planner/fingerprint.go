package planner

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/vsinha/factoryplan/pkg/application/services/analysis"
	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Fingerprint identifies everything a cost propagation run depends on
func Fingerprint(
	recipes []entities.Recipe,
	power entities.MachinePowerMap,
	raw *entities.RawResourceTable,
	config analysis.EngineConfig,
) string {
	h := xxhash.New()
	field := func(s string) {
		_, _ = io.WriteString(h, s)
		_, _ = h.Write([]byte{0})
	}
	number := func(f float64) {
		field(strconv.FormatUint(math.Float64bits(f), 16))
	}

	field(fmt.Sprintf("%v|%d|%t", config.Threshold, config.MaxPasses, config.EnabledOnly))

	for _, recipe := range recipes {
		field(recipe.Name)
		field(string(recipe.Machine.Name))
		field(strconv.FormatUint(uint64(recipe.TimeMs), 10))
		field(strconv.FormatBool(recipe.Enabled))
		for _, in := range recipe.Inputs {
			field("<" + string(in.Item) + ":" + strconv.FormatUint(uint64(in.Quantity), 10))
		}
		for _, out := range recipe.Outputs {
			field(">" + string(out.Item) + ":" + strconv.FormatUint(uint64(out.Quantity), 10))
		}
	}

	machines := make([]string, 0, len(power))
	for name := range power {
		machines = append(machines, string(name))
	}
	sort.Strings(machines)
	for _, name := range machines {
		field("machine:" + name)
		number(power[entities.MachineName(name)])
	}

	if raw != nil {
		field("policy:" + raw.Policy.String())
		field("reference:" + string(raw.Reference))
		for _, item := range raw.Names() {
			field("raw:" + string(item))
			number(raw.Availability[item])
		}
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
