// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs jupyter nbconvert in a throwaway docker or podman
// container for hosts without a local Jupyter install. Notebook and post
// directories reach the container through bind mounts.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Mount binds a host directory into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// volume renders m as a -v value: src:dst[:ro].
func (m Mount) volume() string {
	v := m.Source + ":" + m.Target
	if m.ReadOnly {
		v += ":ro"
	}
	return v
}

// RunSpec describes one converter container.
type RunSpec struct {
	Image   string
	Mounts  []Mount
	WorkDir string
	// User sets --user, typically the host uid:gid so posts written to the
	// output mount belong to whoever ran the conversion.
	User   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// Runtime is a container engine able to run the converter image.
type Runtime interface {
	// Name is the engine binary, "docker" or "podman".
	Name() string

	// Available reports whether the engine is installed and its daemon or
	// service answers.
	Available() bool

	// ImageExists returns an error unless image has been pulled locally.
	ImageExists(image string) error

	// Run starts a container from spec and waits for it to exit.
	Run(ctx context.Context, spec RunSpec) error
}

// commander runs engine commands. Tests replace it with a recorder.
type commander interface {
	LookPath(bin string) (string, error)
	Quiet(bin string, args ...string) error
	Stream(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) error
}

type execCommander struct{}

func (execCommander) LookPath(bin string) (string, error) { return exec.LookPath(bin) }

func (execCommander) Quiet(bin string, args ...string) error {
	return exec.Command(bin, args...).Run()
}

func (execCommander) Stream(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// engine describes how to drive one container CLI.
type engine struct {
	bin string
	// probe lists the arguments that succeed only when an image is present;
	// the image name is appended.
	probe []string
}

// engines lists the supported CLIs in order of preference.
var engines = []engine{
	{bin: "docker", probe: []string{"image", "inspect"}},
	{bin: "podman", probe: []string{"image", "exists"}},
}

type runtime struct {
	engine
	cmd commander
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.cmd.LookPath(r.bin); err != nil {
		return false
	}
	return r.cmd.Quiet(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string(nil), r.probe...), image)
	if err := r.cmd.Quiet(r.bin, args...); err != nil {
		return fmt.Errorf("%s has no local image %s (pull it first): %w", r.bin, image, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, spec RunSpec) error {
	if err := r.cmd.Stream(ctx, r.bin, runArgs(spec), spec.Stdout, spec.Stderr); err != nil {
		return fmt.Errorf("%s run %s: %w", r.bin, spec.Image, err)
	}
	return nil
}

// runArgs builds "run --rm [-v ...] [-w dir] [--user u] image args...".
func runArgs(spec RunSpec) []string {
	args := []string{"run", "--rm"}
	for _, m := range spec.Mounts {
		args = append(args, "-v", m.volume())
	}
	if spec.WorkDir != "" {
		args = append(args, "-w", spec.WorkDir)
	}
	if spec.User != "" {
		args = append(args, "--user", spec.User)
	}
	args = append(args, spec.Image)
	return append(args, spec.Args...)
}

// DetectRuntime returns the first working engine, preferring docker.
func DetectRuntime() (Runtime, error) {
	return detect(execCommander{})
}

func detect(cmd commander) (Runtime, error) {
	names := make([]string, 0, len(engines))
	for _, e := range engines {
		rt := &runtime{engine: e, cmd: cmd}
		if rt.Available() {
			return rt, nil
		}
		names = append(names, e.bin)
	}
	return nil, fmt.Errorf("container backend needs a working docker or podman, none answered (tried %v)", names)
}
