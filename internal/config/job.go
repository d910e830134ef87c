package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/options"
)

// Tool names the ffmpeg-family program a job runs.
type Tool string

const (
	ToolFFmpeg  Tool = "ffmpeg"
	ToolFFprobe Tool = "ffprobe"
)

// Job is one invocation described in YAML:
//
//	tool: ffmpeg
//	global: -y -hide_banner
//	inputs:
//	  input.mp4: -ss 10
//	outputs:
//	  output.webm: [-c:v, libvpx-vp9]
//	env:
//	  AV_LOG_FORCE_NOCOLOR: "1"
//
// Options accept a string, a list of strings, or null. Target order is the
// document order. A null target key (~) contributes options only.
type Job struct {
	Tool       Tool              `yaml:"tool"`
	Executable string            `yaml:"executable"`
	Global     options.Spec      `yaml:"global"`
	Inputs     *ffmpeg.TargetMap `yaml:"inputs"`
	Outputs    *ffmpeg.TargetMap `yaml:"outputs"`
	Env        map[string]string `yaml:"env"`
	Dir        string            `yaml:"dir"`
}

// LoadJob reads and parses the job file at path.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	job, err := ParseJob(data)
	if err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	return job, nil
}

// ParseJob decodes and validates a single YAML job document. Unknown keys
// are rejected.
func ParseJob(data []byte) (*Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty job document")
		}
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate defaults Tool and rejects combinations the tool cannot run.
func (j *Job) Validate() error {
	switch j.Tool {
	case "":
		j.Tool = ToolFFmpeg
	case ToolFFmpeg, ToolFFprobe:
	default:
		return fmt.Errorf("invalid tool %q (use 'ffmpeg' or 'ffprobe')", j.Tool)
	}

	if j.Tool == ToolFFprobe && j.Outputs.Len() > 0 {
		return errors.New("ffprobe jobs take no outputs")
	}
	return nil
}

// ExecutableFor returns the job's executable, falling back to the
// configured path for its tool.
func (j *Job) ExecutableFor(cfg *Config) string {
	if j.Executable != "" {
		return j.Executable
	}
	if j.Tool == ToolFFprobe {
		return cfg.FFprobePath
	}
	return cfg.FFmpegPath
}

// Spec converts the job into an executor spec using the given executable.
func (j *Job) Spec(executable string) ffmpeg.Spec {
	return ffmpeg.Spec{
		Executable: executable,
		Global:     j.Global,
		Inputs:     j.Inputs,
		Outputs:    j.Outputs,
	}
}
