// Command conformance runs every `.lox` fixture under testdata/ through
// glox's own pipeline and checks its stdout and exit code against a
// recorded `.golden` file, reporting a pass/fail table.
package main

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"glox/internal/driver"
)

const width = 100

var divider = strings.Repeat("-", width)

// TestResult is one run's observable outcome: stdout plus exit code.
// Stderr is deliberately not compared — diagnostic wording is allowed
// to improve without breaking conformance fixtures.
type TestResult struct {
	Stdout   string
	ExitCode int
}

type TestCase struct {
	Name     string
	Expected TestResult
	Actual   TestResult
}

type TestSuite struct {
	Name  string
	Cases []TestCase
}

type TestFramework struct {
	Root   string
	Suites []*TestSuite
	Total  int
	Failed []*TestCase
}

func main() {
	root := "cmd/conformance/testdata"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	tf := &TestFramework{Root: root}
	tf.collectSuites(root)
	slices.SortFunc(tf.Suites, func(a, b *TestSuite) int { return strings.Compare(a.Name, b.Name) })

	tf.executeTests()
	tf.printSummary()

	if len(tf.Failed) > 0 {
		os.Exit(1)
	}
}

// collectSuites treats each immediate subdirectory of dir as a suite
// and every `.lox` file directly inside it as a case; `.lox` files
// sitting directly in dir form an implicit "Top Level" suite.
func (tf *TestFramework) collectSuites(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conformance: %v\n", err)
		os.Exit(1)
	}

	topLevel := &TestSuite{Name: "Top Level"}
	for _, entry := range entries {
		if entry.IsDir() {
			tf.Suites = append(tf.Suites, collectSuite(path.Join(dir, entry.Name())))
			continue
		}
		if strings.HasSuffix(entry.Name(), ".lox") {
			topLevel.Cases = append(topLevel.Cases, TestCase{Name: entry.Name()})
		}
	}
	if len(topLevel.Cases) > 0 {
		tf.Suites = append(tf.Suites, topLevel)
	}
}

func collectSuite(dir string) *TestSuite {
	suite := &TestSuite{Name: path.Base(dir)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conformance: %v\n", err)
		os.Exit(1)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".lox") {
			suite.Cases = append(suite.Cases, TestCase{Name: entry.Name()})
		}
	}
	return suite
}

func (tf *TestFramework) executeTests() {
	first := true
	for _, suite := range tf.Suites {
		if first {
			first = false
		} else {
			fmt.Println()
		}
		fmt.Println(suite.Name)

		prevFailed := false
		for i := range suite.Cases {
			tc := &suite.Cases[i]
			dir := tf.Root
			if suite.Name != "Top Level" {
				dir = path.Join(tf.Root, suite.Name)
			}

			expected, err := readGolden(path.Join(dir, goldenName(tc.Name)))
			if err != nil {
				fmt.Fprintf(os.Stderr, "conformance: %s: %v\n", tc.Name, err)
				os.Exit(1)
			}
			tc.Expected = expected
			tc.Actual = runFixture(path.Join(dir, tc.Name))

			prevFailed = tc.printResult(prevFailed)
			tf.Total++
			if tc.Expected != tc.Actual {
				tf.Failed = append(tf.Failed, tc)
			}
		}
	}
}

func goldenName(loxName string) string {
	return strings.TrimSuffix(loxName, ".lox") + ".golden"
}

// runFixture runs one fixture's source through glox's real pipeline,
// the same one cmd/glox uses for script mode.
func runFixture(loxPath string) TestResult {
	source, err := os.ReadFile(loxPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conformance: %v\n", err)
		os.Exit(1)
	}
	var stdout, stderr strings.Builder
	code := driver.RunSource(source, &stdout, &stderr)
	return TestResult{Stdout: stdout.String(), ExitCode: code}
}

// readGolden parses a golden file of the form:
//
//	exit: <code>
//	---
//	<expected stdout, verbatim to EOF>
func readGolden(p string) (TestResult, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return TestResult{}, err
	}
	header, body, found := strings.Cut(string(raw), "---\n")
	if !found {
		return TestResult{}, fmt.Errorf("%s: missing '---' header separator", p)
	}
	exitLine := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "exit:"))
	code, err := strconv.Atoi(exitLine)
	if err != nil {
		return TestResult{}, fmt.Errorf("%s: bad exit code %q: %w", p, exitLine, err)
	}
	return TestResult{Stdout: body, ExitCode: code}, nil
}

func (tc *TestCase) printResult(prevFailed bool) bool {
	passed := tc.Expected == tc.Actual

	result := color.GreenString("passed")
	if !passed {
		result = color.RedString("failed")
	}
	spacing := strings.Repeat(" ", max(1, width-len("  [passed] ")-len(tc.Name)))
	fmt.Printf("  [%s] %s%s\n", result, tc.Name, spacing)

	if !passed {
		if !prevFailed {
			fmt.Println(divider)
		}
		if tc.Expected.ExitCode != tc.Actual.ExitCode {
			fmt.Printf("Expected exit code %d, but got %d\n", tc.Expected.ExitCode, tc.Actual.ExitCode)
		}
		if tc.Expected.Stdout != tc.Actual.Stdout {
			printDiff(tc.Expected.Stdout, tc.Actual.Stdout)
		}
		fmt.Println(divider)
	}
	return !passed
}

func printDiff(expected, actual string) {
	header := fmt.Sprintf("%-*s%s", width/2, "expected stdout", "actual stdout")
	fmt.Println(header)
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		spacing := width/2 - len(e)
		if spacing < 1 {
			spacing = 1
		}
		fmt.Printf("%s%s%s\n", e, strings.Repeat(" ", spacing), a)
	}
}

func (tf *TestFramework) printSummary() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", width))
	fmt.Println("Test summary")
	fmt.Printf("Tests run: %d\n", tf.Total)
	fmt.Printf("Succeeded: %d\n", tf.Total-len(tf.Failed))
	fmt.Printf("Failed:    %d\n", len(tf.Failed))
	if len(tf.Failed) > 0 {
		fmt.Println()
		fmt.Println("Failed tests:")
		for _, tc := range tf.Failed {
			fmt.Printf("  %s\n", tc.Name)
		}
	}
}
