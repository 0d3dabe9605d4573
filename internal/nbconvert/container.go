// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package nbconvert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/convert-notebooks/internal/container"
	"github.com/pdiddy/convert-notebooks/pkg/types"
)

const (
	containerInDir  = "/in"
	containerOutDir = "/out"
)

// ContainerConverter runs nbconvert inside a container image. The notebook's
// directory is mounted read-only and the output directory read-write.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
	user    string
}

// NewContainerConverter creates a converter that uses rt to run image. It
// verifies that the image exists locally before returning.
func NewContainerConverter(rt container.Runtime, image string) (*ContainerConverter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("converter image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image, user: hostUser()}, nil
}

// Convert runs nbconvert in the container, writing outputPrefix.md and its
// images to the mounted output directory.
func (c *ContainerConverter) Convert(ctx context.Context, notebookPath, outputPrefix string) error {
	input, err := filepath.Abs(notebookPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", notebookPath, err)
	}
	output, err := filepath.Abs(outputPrefix)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", outputPrefix, err)
	}

	var logs bytes.Buffer
	spec := container.RunSpec{
		Image: c.image,
		Mounts: []container.Mount{
			{Source: filepath.Dir(input), Target: containerInDir, ReadOnly: true},
			{Source: filepath.Dir(output), Target: containerOutDir},
		},
		WorkDir: containerOutDir,
		User:    c.user,
		Args: append([]string{"jupyter"}, nbconvertArgs(
			containerInDir+"/"+filepath.Base(input),
			containerOutDir,
			filepath.Base(output),
		)...),
		Stdout: &logs,
		Stderr: &logs,
	}
	if err := c.runtime.Run(ctx, spec); err != nil {
		return fmt.Errorf("%w: %w: %s", types.ErrConverterFailed, err, lastLine(logs.Bytes()))
	}
	return nil
}

// hostUser returns "uid:gid" for the current process, or "" where the
// platform has no numeric ids.
func hostUser() string {
	uid, gid := os.Getuid(), os.Getgid()
	if uid < 0 || gid < 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", uid, gid)
}
