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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceDoesNotExist is the reason when a source is neither a file nor a directory
	ErrSourceDoesNotExist = errors.New("source does not exist")
	// ErrSourceInTarget is the reason when a source lives inside the target
	ErrSourceInTarget = errors.New("source is inside target")
	// ErrTargetInSource is the reason when the target lives inside a source
	ErrTargetInSource = errors.New("target is inside source")

	// 🏁 ErrDone is returned by Next and Step once every job has been executed
	ErrDone = errors.New("no more jobs")
)

// ❌ InvalidParametersError rejects a source/target combination before any work starts.
// Reason is one of ErrSourceDoesNotExist, ErrSourceInTarget or ErrTargetInSource.
type InvalidParametersError struct {
	Reason error
	Path   string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid syncer parameters: %s: %s", e.Reason, e.Path)
}

func (e *InvalidParametersError) Unwrap() error {
	return e.Reason
}

// 💥 JobError reports which job failed and during which filesystem operation
type JobError struct {
	Job Job
	Op  string
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Job.Source, e.Job.Target, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

func jobErr(job Job, op string, err error) error {
	return &JobError{Job: job, Op: op, Err: err}
}
