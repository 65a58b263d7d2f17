// Package validate checks an assembled workload response against its published shape.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/workload/schema"
)

// Error lists every structural violation found in a response.
type Error struct {
	Violations []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", schema.ErrInvalidResponse, strings.Join(e.Violations, "; "))
}

// Unwrap lets errors.Is match schema.ErrInvalidResponse.
func (e *Error) Unwrap() error {
	return schema.ErrInvalidResponse
}

// Response returns nil when resp is fully conformant, or an *Error otherwise.
func Response(resp *schema.WorkloadResponse) error {
	if resp == nil {
		return &Error{Violations: []string{"response is nil"}}
	}
	var errs []error
	if resp.Assignees == nil {
		errs = append(errs, errors.New("assignees must be an array"))
	}
	for i, a := range resp.Assignees {
		errs = append(errs, checkAssignee(fmt.Sprintf("assignees[%d]", i), a)...)
	}
	if resp.Releases == nil {
		errs = append(errs, errors.New("releases must be an array"))
	}
	for i, r := range resp.Releases {
		at := fmt.Sprintf("releases[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is empty", at))
		}
		if !isDate(r.Date) {
			errs = append(errs, fmt.Errorf("%s.date %q is not a date", at, r.Date))
		}
	}
	errs = append(errs, checkMetadata(resp)...)

	if err := errors.Join(errs...); err != nil {
		return &Error{Violations: strings.Split(err.Error(), "\n")}
	}
	return nil
}

func checkAssignee(at string, a schema.Assignee) []error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is empty", at))
	}
	if a.Periods == nil {
		errs = append(errs, fmt.Errorf("%s.periods must be an array", at))
	}
	for i, p := range a.Periods {
		errs = append(errs, checkPeriod(fmt.Sprintf("%s.periods[%d]", at, i), p)...)
	}
	return errs
}

func checkPeriod(at string, p schema.Period) []error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is empty", at))
	}
	if !isDate(p.Start) || !isDate(p.End) {
		errs = append(errs, fmt.Errorf("%s has invalid bounds %q..%q", at, p.Start, p.End))
	}
	if p.Days == nil {
		errs = append(errs, fmt.Errorf("%s.days must be an array", at))
	}
	for i, d := range p.Days {
		dayAt := fmt.Sprintf("%s.days[%d]", at, i)
		if !isDate(d.Date) {
			errs = append(errs, fmt.Errorf("%s.date %q is not a date", dayAt, d.Date))
		}
		if !isFinite(d.Load) {
			errs = append(errs, fmt.Errorf("%s.load is not a number", dayAt))
		}
		if d.QALoad != nil && !isFinite(*d.QALoad) {
			errs = append(errs, fmt.Errorf("%s.qaLoad is not a number", dayAt))
		}
		if d.SPLoad != nil && !isFinite(*d.SPLoad) {
			errs = append(errs, fmt.Errorf("%s.spLoad is not a number", dayAt))
		}
		if d.Tasks == nil {
			errs = append(errs, fmt.Errorf("%s.tasks must be an array", dayAt))
		}
		for j, task := range d.Tasks {
			if task == "" {
				errs = append(errs, fmt.Errorf("%s.tasks[%d] is empty", dayAt, j))
			}
		}
	}
	return errs
}

// checkMetadata requires every task id used by a day to be a key of each present map.
func checkMetadata(resp *schema.WorkloadResponse) []error {
	var errs []error
	for id, v := range resp.TaskEstimates {
		if !isFinite(v) {
			errs = append(errs, fmt.Errorf("taskEstimates[%q] is not a number", id))
		}
	}
	for _, a := range resp.Assignees {
		for _, p := range a.Periods {
			for _, d := range p.Days {
				for _, task := range d.Tasks {
					if resp.TaskTitles != nil {
						if _, ok := resp.TaskTitles[task]; !ok {
							errs = append(errs, fmt.Errorf("task %q missing from taskTitles", task))
						}
					}
					if resp.TaskTypes != nil {
						if _, ok := resp.TaskTypes[task]; !ok {
							errs = append(errs, fmt.Errorf("task %q missing from taskTypes", task))
						}
					}
					if resp.TaskEstimates != nil {
						if _, ok := resp.TaskEstimates[task]; !ok {
							errs = append(errs, fmt.Errorf("task %q missing from taskEstimates", task))
						}
					}
				}
			}
		}
	}
	return errs
}

func isDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
