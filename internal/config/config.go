package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"

	"photo-session/internal/autofocus"
	"photo-session/internal/capture"
	"photo-session/internal/dof"
	"photo-session/internal/input"
	"photo-session/internal/scene"
	"photo-session/internal/volume"
)

// Settings holds everything a photo session reads from configuration.
type Settings struct {
	// Paths
	DataRoot  string `toml:"data_root" json:"dataRoot"`
	Scene     string `toml:"scene" json:"scene"`
	Textures  string `toml:"textures" json:"textures"`
	OutputDir string `toml:"output_dir" json:"outputDir"`

	Image        ImageSettings        `toml:"image" json:"image"`
	Camera       CameraSettings       `toml:"camera" json:"camera"`
	AutoFocus    AutoFocusSettings    `toml:"auto_focus" json:"autoFocus"`
	Shortcuts    input.Shortcuts      `toml:"shortcuts" json:"shortcuts"`
	DepthOfField DepthOfFieldSettings `toml:"depth_of_field" json:"depthOfField"`
	Guides       GuideSettings        `toml:"guides" json:"guides"`
	Batch        BatchSettings        `toml:"batch" json:"batch"`
}

// ImageSettings selects what a screenshot looks like.
type ImageSettings struct {
	PhotoType           capture.PhotoType   `toml:"photo_type" json:"photoType"`
	Format              capture.Format      `toml:"format" json:"outputFormat"`
	Resolution          capture.Resolution  `toml:"resolution" json:"resolution"`
	AspectRatio         capture.AspectRatio `toml:"aspect_ratio" json:"aspectRatio"`
	FieldOfViewOverride bool                `toml:"field_of_view_override" json:"fieldOfViewOverride"`
	FieldOfView         float64             `toml:"field_of_view" json:"fieldOfView"`
	Supersample         int                 `toml:"supersample" json:"supersample"`
}

// CameraSettings tunes free-look navigation.
type CameraSettings struct {
	MovementSpeed       float64 `toml:"movement_speed" json:"movementSpeed"`
	MovementSpeedFast   float64 `toml:"movement_speed_fast" json:"movementSpeedFast"`
	FreeLookSensitivity float64 `toml:"free_look_sensitivity" json:"freeLookSensitivity"`
	ZoomSensitivity     float64 `toml:"zoom_sensitivity" json:"zoomSensitivity"`
	ZoomSensitivityFast float64 `toml:"zoom_sensitivity_fast" json:"zoomSensitivityFast"`

	// PauseTime is the simulation time scale while in photo mode.
	PauseTime float64 `toml:"pause_time" json:"pauseTime"`

	ReusePreviousCameraTransform bool `toml:"reuse_previous_camera_transform" json:"reusePreviousCameraTransform"`

	// InputDelay in real seconds before free-look input goes live.
	InputDelay float64 `toml:"input_delay" json:"inputDelay"`

	// Blacklist names scene toggles disabled during photo mode.
	Blacklist []string `toml:"blacklist" json:"disabledComponents"`
}

// AutoFocusSettings configures the focus rays and their overlay.
type AutoFocusSettings struct {
	Mode           autofocus.Mode  `toml:"mode" json:"mode"`
	MaxRayLength   float64         `toml:"max_ray_length" json:"maxRayLength"`
	LayerMask      scene.LayerMask `toml:"layer_mask" json:"layerMask"`
	SkipBounds     bool            `toml:"skip_bounds" json:"skipBounds"`
	OverlayVisible bool            `toml:"overlay_visible" json:"overlayVisible"`
}

// DepthOfFieldSettings selects the pipeline strategy and its tuning.
type DepthOfFieldSettings struct {
	Enabled  bool         `toml:"enabled" json:"featureEnabled"`
	Pipeline dof.Pipeline `toml:"pipeline" json:"pipeline"`
	// Volume names the post-process volume the strategy drives. Empty
	// leaves the strategy without a volume.
	Volume string `toml:"volume" json:"volume"`

	HDRP    HDRPSettings   `toml:"hdrp" json:"hdrp"`
	URP     BokehSettings  `toml:"urp" json:"urp"`
	URPMode volume.URPMode `toml:"urp_mode" json:"urpMode"`
	Legacy  BokehSettings  `toml:"legacy" json:"legacy"`
}

type HDRPSettings struct {
	MaxFocusDistance    float64              `toml:"max_focus_distance" json:"maxFocusDistance"`
	NearFocusEndOffset  float64              `toml:"near_focus_end_offset" json:"nearFocusEndOffset"`
	FarFocusStartOffset float64              `toml:"far_focus_start_offset" json:"farFocusStartOffset"`
	FarFocusEndOffset   float64              `toml:"far_focus_end_offset" json:"farFocusEndOffset"`
	FocusMode           volume.HDRPFocusMode `toml:"focus_mode" json:"focusMode"`
}

type BokehSettings struct {
	MaxFocusDistance    float64 `toml:"max_focus_distance" json:"maxFocusDistance"`
	FocusDistanceOffset float64 `toml:"focus_distance_offset" json:"focusDistanceOffset"`
	FocalLength         float64 `toml:"focal_length" json:"focalLength"`
	Aperture            float64 `toml:"aperture" json:"aperture"`
}

// GuideSettings lists composition guide images on top of the built-in ones.
type GuideSettings struct {
	Files []string `toml:"files" json:"files"`
	Index int      `toml:"index" json:"compositionGuideIndex"`
}

// BatchSettings drives headless captures of the scene's viewpoints.
type BatchSettings struct {
	Workers int `toml:"workers" json:"workers"`
	Width   int `toml:"width" json:"width"`
	Height  int `toml:"height" json:"height"`
}

// Default returns the stock settings.
func Default() Settings {
	hdrp := dof.DefaultHDRPSettings()
	urp := dof.DefaultURPSettings()
	legacy := dof.DefaultLegacySettings()
	return Settings{
		Image: ImageSettings{
			PhotoType:   capture.Flat,
			Format:      capture.JPG,
			Resolution:  capture.Game,
			AspectRatio: capture.AR16x9,
			FieldOfView: 60,
			Supersample: 1,
		},
		Camera: CameraSettings{
			MovementSpeed:       4,
			MovementSpeedFast:   20,
			FreeLookSensitivity: 2,
			ZoomSensitivity:     5,
			ZoomSensitivityFast: 20,
			InputDelay:          0.3,
		},
		AutoFocus: AutoFocusSettings{
			Mode:           autofocus.Center,
			MaxRayLength:   3,
			LayerMask:      scene.DefaultFocusMask,
			SkipBounds:     true,
			OverlayVisible: true,
		},
		Shortcuts: input.DefaultShortcuts(),
		DepthOfField: DepthOfFieldSettings{
			Pipeline: dof.HDRP,
			Volume:   "Global Volume",
			HDRP: HDRPSettings{
				MaxFocusDistance:    hdrp.MaxFocusDistance,
				NearFocusEndOffset:  hdrp.NearFocusEndOffset,
				FarFocusStartOffset: hdrp.FarFocusStartOffset,
				FarFocusEndOffset:   hdrp.FarFocusEndOffset,
				FocusMode:           hdrp.FocusMode,
			},
			URP: BokehSettings{
				MaxFocusDistance: urp.MaxFocusDistance,
				FocalLength:      urp.FocalLength,
				Aperture:         urp.Aperture,
			},
			URPMode: urp.Mode,
			Legacy: BokehSettings{
				MaxFocusDistance: legacy.MaxFocusDistance,
				FocalLength:      legacy.FocalLength,
				Aperture:         legacy.Aperture,
			},
		},
		Batch: BatchSettings{Width: 1280, Height: 720},
	}
}

// Load reads a TOML or JSON settings file (by extension) over the
// defaults. Fields not set in the file keep their default values.
func Load(path string) (Settings, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml", "":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Settings{}, fmt.Errorf("config: unsupported file type %s", path)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes s as TOML.
func (s Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Strategy returns the depth-of-field strategy settings bound to v.
func (d DepthOfFieldSettings) Strategy(v *volume.Volume) dof.Settings {
	return dof.Settings{
		HDRP: dof.HDRPSettings{
			FeatureEnabled:      d.Enabled,
			Volume:              v,
			MaxFocusDistance:    d.HDRP.MaxFocusDistance,
			NearFocusEndOffset:  d.HDRP.NearFocusEndOffset,
			FarFocusStartOffset: d.HDRP.FarFocusStartOffset,
			FarFocusEndOffset:   d.HDRP.FarFocusEndOffset,
			FocusMode:           d.HDRP.FocusMode,
		},
		URP: dof.URPSettings{
			FeatureEnabled:      d.Enabled,
			Volume:              v,
			MaxFocusDistance:    d.URP.MaxFocusDistance,
			FocusDistanceOffset: d.URP.FocusDistanceOffset,
			FocalLength:         d.URP.FocalLength,
			Aperture:            d.URP.Aperture,
			Mode:                d.URPMode,
		},
		Legacy: dof.LegacySettings{
			FeatureEnabled:      d.Enabled,
			Volume:              v,
			MaxFocusDistance:    d.Legacy.MaxFocusDistance,
			FocusDistanceOffset: d.Legacy.FocusDistanceOffset,
			FocalLength:         d.Legacy.FocalLength,
			Aperture:            d.Legacy.Aperture,
		},
	}
}

// Input returns the autofocus pass input for the configured mode.
func (a AutoFocusSettings) Input() (autofocus.Input, error) {
	x, y, err := a.Mode.Rays()
	if err != nil {
		return autofocus.Input{}, err
	}
	return autofocus.Input{
		SkipBounds:   a.SkipBounds,
		RaysX:        x,
		RaysY:        y,
		MaxRayLength: a.MaxRayLength,
		LayerMask:    a.LayerMask,
	}, nil
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	var out Settings
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		// plain values only; a failure here means the struct changed shape
		panic(fmt.Sprintf("config: clone: %v", err))
	}
	return out
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (s *Settings) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataRoot != "" {
		s.DataRoot = flags.DataRoot
	}
	if flags.Scene != "" {
		s.Scene = flags.Scene
	}
	if flags.OutputDir != "" {
		s.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		var f capture.Format
		if err := f.UnmarshalText([]byte(flags.Format)); err == nil {
			s.Image.Format = f
		}
	}
	if flags.Workers > 0 {
		s.Batch.Workers = flags.Workers
	}

	// Auto-detect data root if still empty
	if s.DataRoot == "" {
		s.DataRoot = detectDataRoot()
	}

	// Resolve relative paths against the data root
	s.Scene = resolvePath(s.DataRoot, s.Scene)
	s.Textures = resolvePath(s.DataRoot, s.Textures)
	for i, f := range s.Guides.Files {
		s.Guides.Files[i] = resolvePath(s.DataRoot, f)
	}
	// A relative output dir sits beside the data root, like Screenshots.
	if s.OutputDir == "" {
		s.OutputDir = capture.Dir(s.DataRoot)
	} else if !filepath.IsAbs(s.OutputDir) {
		s.OutputDir = filepath.Join(filepath.Dir(s.DataRoot), s.OutputDir)
	}

	// Defaults for render settings
	if s.Image.Supersample <= 0 {
		s.Image.Supersample = 1
	}
	if s.Batch.Workers <= 0 {
		s.Batch.Workers = runtime.NumCPU()
	}
	if s.Batch.Width <= 0 || s.Batch.Height <= 0 {
		s.Batch.Width, s.Batch.Height = 1280, 720
	}
	if s.Camera.InputDelay < 0 {
		s.Camera.InputDelay = 0
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataRoot  string
	Scene     string
	OutputDir string
	Format    string
	Workers   int
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

// detectDataRoot looks for an Assets folder next to the executable or in
// the working directory, falling back to ./Assets.
func detectDataRoot() string {
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if isDir(filepath.Join(base, "Assets")) {
				return filepath.Join(base, "Assets")
			}
		}
	}

	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "Assets")
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
