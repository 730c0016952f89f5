// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.openharmony.org/ohdriver/internal/errors"
)

// ResultDirName is the subdirectory of a report root holding result files.
const ResultDirName = "result"

// ResultPath returns the path of the result file of module under reportRoot.
func ResultPath(reportRoot, module string) string {
	return filepath.Join(reportRoot, ResultDirName, module+".xml")
}

type testSuites struct {
	XMLName   xml.Name   `xml:"testsuites"`
	TestSuite *testSuite `xml:"testsuite"`
}

// testSuite is an XML element in JUnit result.
// Errors are not distinguished from failures. Ignored and blocked tests are
// both counted as skipped; the result attribute of each case tells them apart.
type testSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Blocked   int         `xml:"blocked,attr"`
	Timestamp string      `xml:"timestamp,attr,omitempty"`
	TestCase  []*testCase `xml:"testcase"`
}

type testCase struct {
	Name      string `xml:"name,attr"`
	ClassName string `xml:"classname,attr"`
	Status    string `xml:"status,attr"` // run or notrun
	Result    string `xml:"result,attr"` // completed, ignored or blocked
	Level     string `xml:"level,attr,omitempty"`
	Timestamp string `xml:"timestamp,attr,omitempty"`
	Time      string `xml:"time,attr,omitempty"`

	Failure *failure `xml:"failure,omitempty"`
	Skipped *skipped `xml:"skipped,omitempty"`
}

type failure struct {
	Message string `xml:"message,attr,omitempty"`
	Details string `xml:",cdata"`
}

type skipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnitXML saves results of module to path in the JUnit XML format.
// The file is replaced atomically so readers never observe partial content.
func WriteJUnitXML(path, module string, results []*Result) error {
	suite := &testSuite{Name: module, Tests: len(results)}
	for _, r := range results {
		tc := &testCase{
			Name:      r.Test,
			ClassName: r.Class,
			Level:     r.Tier,
		}
		if !r.Start.IsZero() {
			tc.Timestamp = r.Start.UTC().Format(time.RFC3339)
			// Decimal point is needed for distinguishing it from nanoseconds notation.
			tc.Time = fmt.Sprintf("%.1f", r.End.Sub(r.Start).Seconds())
			if suite.Timestamp == "" {
				suite.Timestamp = tc.Timestamp
			}
		}
		switch r.Status {
		case StatusPass:
			tc.Status, tc.Result = "run", "completed"
		case StatusFail:
			tc.Status, tc.Result = "run", "completed"
			tc.Failure = &failure{Message: r.Message, Details: r.Message}
			suite.Failures++
		case StatusIgnored:
			tc.Status, tc.Result = "notrun", "ignored"
			tc.Skipped = &skipped{Message: r.Message}
			suite.Skipped++
		case StatusBlocked:
			tc.Status, tc.Result = "notrun", "blocked"
			tc.Skipped = &skipped{Message: r.Message}
			suite.Blocked++
		default:
			return errors.Errorf("%s: unknown status %q", r.Name(), r.Status)
		}
		suite.TestCase = append(suite.TestCase, tc)
	}

	data, err := xml.MarshalIndent(&testSuites{TestSuite: suite}, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to rename %s", tmp)
	}
	return nil
}
