// Package config holds the tunable parameters of the extraction and
// matching pipelines. Defaults are baked into struct tags and installed by
// LoadDefaultConfig; LoadConfig overlays a TOML file on top of them.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/mcuadros/go-defaults"
)

// Config is the active parameter set. Nil until one of the Load functions
// runs; library entry points fall back to Get, which installs the defaults
// lazily.
var Config *Parameters

// Parameters bundles every knob of the pipeline. All distances are in
// pixels, all angular values in direction units (180/NumDirections degrees
// each) unless noted otherwise.
type Parameters struct {
	// Workers bounds concurrent template comparisons during identification.
	// Zero or negative leaves the fan-out unbounded.
	Workers int `default:"4" toml:"workers"`

	// Block grid and ridge-flow analysis.
	BlockSize     int `default:"8" toml:"block_size"`
	NumDirections int `default:"16" toml:"num_directions"`
	WindowSize    int `default:"24" toml:"window_size"`
	WindowOffset  int `default:"8" toml:"window_offset"`

	// Block classification thresholds. Contrast is the percentile-trimmed
	// grey range of a block; dominance is peak wave energy over the mean
	// across candidate directions.
	MinContrastDelta int     `default:"10" toml:"min_contrast_delta"`
	ContrastTrimPct  int     `default:"10" toml:"contrast_trim_pct"`
	DirPowerMin      float64 `default:"1.0" toml:"dir_power_min"`
	DirDominanceMin  float64 `default:"1.5" toml:"dir_dominance_min"`
	FlowDominanceMin float64 `default:"2.5" toml:"flow_dominance_min"`

	// Direction interpolation and curvature flagging.
	MinInterpolateNbrs int `default:"3" toml:"min_interpolate_nbrs"`
	HighCurvatureDelta int `default:"5" toml:"high_curvature_delta"`
	VorticityMin       int `default:"5" toml:"vorticity_min"`

	// Binarizer window, width along the ridge flow and height across it.
	DirBinGridW int `default:"7" toml:"dir_bin_grid_w"`
	DirBinGridH int `default:"9" toml:"dir_bin_grid_h"`

	// Minutia detection and contour adjustment.
	MaxMinutiaDelta float64 `default:"10.0" toml:"max_minutia_delta"`
	HalfContour     int     `default:"14" toml:"half_contour"`
	AngleWindow     int     `default:"5" toml:"angle_window"`

	// Loop handling.
	SmallLoopLen       int     `default:"15" toml:"small_loop_len"`
	MinLoopLen         int     `default:"20" toml:"min_loop_len"`
	MinLoopAspectDist  float64 `default:"8.0" toml:"min_loop_aspect_dist"`
	MinLoopAspectRatio float64 `default:"2.25" toml:"min_loop_aspect_ratio"`

	// Ridge linking.
	LinkTableDim    int     `default:"20" toml:"link_table_dim"`
	MaxLinkDist     int     `default:"20" toml:"max_link_dist"`
	MinThetaDist    int     `default:"4" toml:"min_theta_dist"`
	MaxTrans        int     `default:"2" toml:"max_trans"`
	ScoreThetaNorm  float64 `default:"15.0" toml:"score_theta_norm"`
	ScoreDistNorm   float64 `default:"10.0" toml:"score_dist_norm"`
	ScoreDistWeight float64 `default:"4.0" toml:"score_dist_weight"`
	ScoreNumerator  float64 `default:"32000.0" toml:"score_numerator"`
	JoinLineRadius  int     `default:"1" toml:"join_line_radius"`

	// Ridge counting.
	MaxNeighbors int `default:"5" toml:"max_neighbors"`

	// Input normalization. TargetPixPerMM is the 500 DPI reference
	// resolution the extraction constants are tuned for.
	NormalizeResolution bool    `default:"true" toml:"normalize_resolution"`
	TargetPixPerMM      float64 `default:"19.685" toml:"target_pix_per_mm"`
}

// LoadDefaultConfig installs the built-in defaults as the active config.
func LoadDefaultConfig() error {
	c := new(Parameters)
	defaults.SetDefaults(c)
	Config = c
	return nil
}

// LoadConfig reads a TOML file over the defaults and installs the result.
func LoadConfig(path string) error {
	c := new(Parameters)
	defaults.SetDefaults(c)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	Config = c
	return nil
}

// Get returns the active configuration, installing defaults on first use.
func Get() *Parameters {
	if Config == nil {
		LoadDefaultConfig()
	}
	return Config
}
