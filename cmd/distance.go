// cmd/distance.go - Distance metric comparison command
package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"geojson-planet/pkg/sphere"
)

// distanceCmd represents the distance command
var distanceCmd = &cobra.Command{
	Use:   "distance <lon,lat> <lon,lat>",
	Short: "Compare the distance metrics between two points",
	Long: `Print the MaxProjection, Chord and ExactArc distances between two points in
degrees, and the metric the configured distance mode selects for --d-min.

Points starting with a minus sign look like flags, so put them after "--".

Examples:
  geojson-planet distance 0,0 0,90
  geojson-planet distance 10,20 30,40 --d-min 5 --distance-mode mixed
  geojson-planet distance --d-min 5 -- -10,5 20,5`,
	Args: cobra.ExactArgs(2),
	RunE: runDistance,
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}

	a, err := parsePoint(args[0])
	if err != nil {
		return err
	}
	b, err := parsePoint(args[1])
	if err != nil {
		return err
	}

	t := sphere.NewTessellator(env.config.Tessellation.DMin, env.config.Tessellation.DistanceMode)
	return writeDistances(cmd, a, b, t)
}

func writeDistances(cmd *cobra.Command, a, b orb.Point, t sphere.Tessellator) error {
	la := s2.LatLngFromDegrees(a.Lat(), a.Lon())
	lb := s2.LatLngFromDegrees(b.Lat(), b.Lon())

	selected := t.ResolvedMode()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "metric\tdegrees\tradians\t")
	for _, m := range []struct {
		mode   sphere.DistanceMode
		metric sphere.Metric
	}{
		{sphere.ModeMaxProjection, sphere.MaxProjection},
		{sphere.ModeChord, sphere.Chord},
		{sphere.ModeExactArc, sphere.ExactArc},
	} {
		d := m.metric(la, lb)
		marker := ""
		if m.mode == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%s\n", m.mode, d.Degrees(), d.Radians(), marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if t.Enabled() {
		d := t.Metric()(la, lb)
		fmt.Fprintf(cmd.OutOrStdout(), "tessellation: d_min %.4f deg, %d point(s) inserted\n",
			t.DMin.Degrees(), inserted(d, t.DMin))
	}
	return nil
}

// inserted returns how many points tessellation adds between two vertices
// d apart.
func inserted(d, dMax s1.Angle) int {
	if d <= dMax {
		return 0
	}
	return int(math.Ceil(d.Radians()/dMax.Radians())) - 1
}

// parsePoint parses "lon,lat" in degrees
func parsePoint(s string) (orb.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("invalid point %q: expected lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	return orb.Point{lon, lat}, nil
}
