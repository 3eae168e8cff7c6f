// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syncer

import (
	"bytes"
	"io"
	"io/fs"
	"os"

	"gitlab.com/tozd/go/errors"
)

const (
	dirMode     = 0o755
	compareSize = 64 * 1024
)

// 📦 Job maps one source entry to its target path
type Job struct {
	Source string
	Target string
}

// 🏷️ Outcome is what executing a job did to its target
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeChmod // content equal, permission bits fixed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeChmod:
		return "chmod"
	default:
		return "unchanged"
	}
}

// 🏃 Execute mirrors the source onto the target.
// Directories are created when missing. Files are copied when missing, otherwise
// only rewritten when their content differs; permission bits always end up equal
// to the source's.
func (j Job) Execute() error {
	_, err := j.Apply()
	return err
}

// Apply is Execute that also reports what changed.
func (j Job) Apply() (Outcome, error) {
	src, err := os.Stat(j.Source)
	if err != nil {
		return OutcomeUnchanged, jobErr(j, "stat", err)
	}

	if src.IsDir() {
		return j.executeDir()
	}

	dst, err := os.Stat(j.Target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return j.copyFile(src)
	case err != nil:
		return OutcomeUnchanged, jobErr(j, "stat", err)
	case !dst.Mode().IsRegular():
		return OutcomeUnchanged, jobErr(j, "stat", &fs.PathError{Op: "stat", Path: j.Target, Err: errors.New("target exists and is not a regular file")})
	}

	return j.updateFile(src, dst)
}

func (j Job) executeDir() (Outcome, error) {
	err := os.Mkdir(j.Target, dirMode)
	if err == nil {
		return OutcomeCreated, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return OutcomeUnchanged, jobErr(j, "mkdir", err)
	}

	// two sources sharing a basename may both get here in one batch
	dst, err := os.Stat(j.Target)
	if err != nil {
		return OutcomeUnchanged, jobErr(j, "stat", err)
	}
	if !dst.IsDir() {
		return OutcomeUnchanged, jobErr(j, "mkdir", &fs.PathError{Op: "mkdir", Path: j.Target, Err: errors.New("target exists and is not a directory")})
	}
	return OutcomeUnchanged, nil
}

// copyFile writes a target that did not exist when it was stat-ed.
// Losing the create to a concurrent job falls back to a diff.
func (j Job) copyFile(src fs.FileInfo) (Outcome, error) {
	in, err := os.Open(j.Source)
	if err != nil {
		return OutcomeUnchanged, jobErr(j, "open", err)
	}
	defer in.Close()

	out, err := os.OpenFile(j.Target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		dst, err := os.Stat(j.Target)
		if err != nil {
			return OutcomeUnchanged, jobErr(j, "stat", err)
		}
		if !dst.Mode().IsRegular() {
			return OutcomeUnchanged, jobErr(j, "stat", &fs.PathError{Op: "stat", Path: j.Target, Err: errors.New("target exists and is not a regular file")})
		}
		return j.updateFile(src, dst)
	}
	if err != nil {
		return OutcomeUnchanged, jobErr(j, "open", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return OutcomeCreated, jobErr(j, "copy", err)
	}
	if err := out.Close(); err != nil {
		return OutcomeCreated, jobErr(j, "copy", err)
	}

	// chmod after close, the umask applied on create must not leak into the result
	if err := os.Chmod(j.Target, src.Mode().Perm()); err != nil {
		return OutcomeCreated, jobErr(j, "chmod", err)
	}
	return OutcomeCreated, nil
}

// updateFile diffs an existing target against the source
func (j Job) updateFile(src, dst fs.FileInfo) (Outcome, error) {
	perm := src.Mode().Perm()

	// permissions are fixed before the compare, the target may not be readable yet
	chmodded := false
	if dst.Mode().Perm() != perm {
		if err := os.Chmod(j.Target, perm); err != nil {
			return OutcomeUnchanged, jobErr(j, "chmod", err)
		}
		chmodded = true
	}

	if src.Size() == dst.Size() {
		equal, err := j.sameContent()
		if err != nil {
			if chmodded {
				return OutcomeChmod, err
			}
			return OutcomeUnchanged, err
		}
		if equal {
			if chmodded {
				return OutcomeChmod, nil
			}
			return OutcomeUnchanged, nil
		}
	}

	// a read-only source leaves a read-only target, open it up for the rewrite
	if perm&0o200 == 0 {
		if err := os.Chmod(j.Target, perm|0o200); err != nil {
			return OutcomeUnchanged, jobErr(j, "chmod", err)
		}
	}

	if err := j.rewrite(src.Size()); err != nil {
		return OutcomeUpdated, err
	}

	if perm&0o200 == 0 {
		if err := os.Chmod(j.Target, perm); err != nil {
			return OutcomeUpdated, jobErr(j, "chmod", err)
		}
	}
	return OutcomeUpdated, nil
}

func (j Job) rewrite(size int64) error {
	in, err := os.Open(j.Source)
	if err != nil {
		return jobErr(j, "open", err)
	}
	defer in.Close()

	out, err := os.OpenFile(j.Target, os.O_WRONLY, 0)
	if err != nil {
		return jobErr(j, "open", err)
	}

	if err := out.Truncate(size); err != nil {
		out.Close()
		return jobErr(j, "truncate", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return jobErr(j, "copy", err)
	}
	if err := out.Close(); err != nil {
		return jobErr(j, "copy", err)
	}
	return nil
}

// sameContent compares both files chunk by chunk without loading them whole
func (j Job) sameContent() (bool, error) {
	a, err := os.Open(j.Source)
	if err != nil {
		return false, jobErr(j, "open", err)
	}
	defer a.Close()

	b, err := os.Open(j.Target)
	if err != nil {
		return false, jobErr(j, "open", err)
	}
	defer b.Close()

	bufA := make([]byte, compareSize)
	bufB := make([]byte, compareSize)
	for {
		na, errA := io.ReadFull(a, bufA)
		if errA != nil && !errors.Is(errA, io.EOF) && !errors.Is(errA, io.ErrUnexpectedEOF) {
			return false, jobErr(j, "compare", errA)
		}
		nb, errB := io.ReadFull(b, bufB)
		if errB != nil && !errors.Is(errB, io.EOF) && !errors.Is(errB, io.ErrUnexpectedEOF) {
			return false, jobErr(j, "compare", errB)
		}

		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		// a short read means both files hit EOF at the same offset
		if na < compareSize {
			return true, nil
		}
	}
}
