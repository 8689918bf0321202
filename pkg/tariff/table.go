package tariff

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// PrefixRange maps an inclusive range of postal prefixes to a city.
type PrefixRange struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Name   string `yaml:"name"`
	State  string `yaml:"state"`
	Region string `yaml:"region"`
}

// Route assigns a zone to an origin/destination region pair.
type Route struct {
	Origin      string `yaml:"origin"`
	Destination string `yaml:"destination"`
	Zone        int    `yaml:"zone"`
}

// Band is a weight band price: packages up to UpToKg cost Price.
type Band struct {
	UpToKg float64         `yaml:"up_to_kg"`
	Price  decimal.Decimal `yaml:"price"`
}

// Zone holds the bands of one tariff zone.
type Zone struct {
	Zone       int             `yaml:"zone"`
	ExtraPerKg decimal.Decimal `yaml:"extra_per_kg"`
	Bands      []Band          `yaml:"bands"`
}

// Remote marks a destination prefix range as a remote area.
type Remote struct {
	From        string          `yaml:"from"`
	To          string          `yaml:"to"`
	Description string          `yaml:"description"`
	Fee         decimal.Decimal `yaml:"fee"`
}

// Table is an in-memory tariff table. It is read-only after Build and safe
// for concurrent use.
type Table struct {
	Cities  []PrefixRange `yaml:"cities"`
	Routes  []Route       `yaml:"routes"`
	Zones   []Zone        `yaml:"zones"`
	Remotes []Remote      `yaml:"remote_areas"`

	routes map[[2]string]int
	zones  map[int]Zone
}

// Build validates the table and indexes it for lookups.
func (t *Table) Build() error {
	for i, c := range t.Cities {
		if len(c.From) != PrefixLen || len(c.To) != PrefixLen || c.From > c.To {
			return fmt.Errorf("city %d (%s): invalid prefix range %q-%q", i, c.Name, c.From, c.To)
		}
		if c.Region == "" {
			return fmt.Errorf("city %d (%s): missing region", i, c.Name)
		}
	}
	sort.Slice(t.Cities, func(i, j int) bool { return t.Cities[i].From < t.Cities[j].From })

	t.zones = make(map[int]Zone, len(t.Zones))
	for _, z := range t.Zones {
		if len(z.Bands) == 0 {
			return fmt.Errorf("zone %d: %w", z.Zone, ErrUnknownZone)
		}
		bands := make([]Band, len(z.Bands))
		copy(bands, z.Bands)
		sort.Slice(bands, func(i, j int) bool { return bands[i].UpToKg < bands[j].UpToKg })
		z.Bands = bands
		t.zones[z.Zone] = z
	}

	t.routes = make(map[[2]string]int, len(t.Routes))
	for _, r := range t.Routes {
		if _, ok := t.zones[r.Zone]; !ok {
			return fmt.Errorf("route %s->%s: zone %d: %w", r.Origin, r.Destination, r.Zone, ErrUnknownZone)
		}
		t.routes[[2]string{r.Origin, r.Destination}] = r.Zone
	}

	for i, r := range t.Remotes {
		if len(r.From) != PrefixLen || len(r.To) != PrefixLen || r.From > r.To {
			return fmt.Errorf("remote area %d (%s): invalid prefix range %q-%q", i, r.Description, r.From, r.To)
		}
	}
	return nil
}

// City implements CityLookup.
func (t *Table) City(prefix string) (City, bool) {
	prefix = Prefix(prefix)
	if len(prefix) != PrefixLen {
		return City{}, false
	}
	i := sort.Search(len(t.Cities), func(i int) bool { return t.Cities[i].To >= prefix })
	if i < len(t.Cities) && t.Cities[i].From <= prefix {
		c := t.Cities[i]
		return City{Name: c.Name, State: c.State, Region: c.Region}, true
	}
	return City{}, false
}

// Zone returns the zone of a region pair. Routes are symmetric.
func (t *Table) Zone(originRegion, destinationRegion string) (int, bool) {
	if z, ok := t.routes[[2]string{originRegion, destinationRegion}]; ok {
		return z, true
	}
	z, ok := t.routes[[2]string{destinationRegion, originRegion}]
	return z, ok
}

// Remote returns the remote-area classification of a destination prefix.
func (t *Table) Remote(prefix string) RemoteArea {
	prefix = Prefix(prefix)
	for _, r := range t.Remotes {
		if r.From <= prefix && prefix <= r.To {
			return RemoteArea{Status: true, Description: r.Description, Fee: r.Fee}
		}
	}
	return RemoteArea{}
}

// Calc implements Calculator.
func (t *Table) Calc(in Input) (Result, error) {
	origin, ok := t.City(in.OriginPrefix)
	if !ok {
		return Result{}, fmt.Errorf("origin %q: %w", in.OriginPrefix, ErrUnknownCity)
	}
	destination, ok := t.City(in.DestinationPrefix)
	if !ok {
		return Result{}, fmt.Errorf("destination %q: %w", in.DestinationPrefix, ErrUnknownCity)
	}

	zoneID, ok := t.Zone(origin.Region, destination.Region)
	if !ok {
		return Result{}, fmt.Errorf("%s->%s: %w", origin.Region, destination.Region, ErrUnknownRoute)
	}
	zone := t.zones[zoneID]

	total := decimal.Zero
	for _, p := range in.Packages {
		total = total.Add(zone.price(BillableWeight(p)))
	}

	remote := t.Remote(in.DestinationPrefix)
	if remote.Status {
		total = total.Add(remote.Fee)
	}

	return Result{
		Total:      total,
		Zone:       zoneID,
		RemoteArea: remote,
	}, nil
}

// price returns the band price for weight, charging ExtraPerKg for every
// started kilogram above the last band.
func (z Zone) price(weight decimal.Decimal) decimal.Decimal {
	for _, b := range z.Bands {
		if weight.LessThanOrEqual(decimal.NewFromFloat(b.UpToKg)) {
			return b.Price
		}
	}
	last := z.Bands[len(z.Bands)-1]
	excess := weight.Sub(decimal.NewFromFloat(last.UpToKg)).Ceil()
	return last.Price.Add(z.ExtraPerKg.Mul(excess))
}

// Stats summarizes a table for operators.
type Stats struct {
	Cities  int
	Routes  int
	Zones   int
	Remotes int
}

// Stats returns the table's entry counts.
func (t *Table) Stats() Stats {
	return Stats{
		Cities:  len(t.Cities),
		Routes:  len(t.Routes),
		Zones:   len(t.Zones),
		Remotes: len(t.Remotes),
	}
}

var (
	_ CityLookup = (*Table)(nil)
	_ Calculator = (*Table)(nil)
)
