package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
	z string
}

type User struct {
	Name string
}

type StructWithStruct struct {
	x int
	Y User
	z string
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level and logger name.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])

	// Structured logging with the "w" API has an extra tab delimited output.
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	if len(actualParts) == 5 {
		return
	}

	expectedMap := make(map[string]any)
	err = json.Unmarshal([]byte(expectedParts[5]), &expectedMap)
	test.That(t, err, test.ShouldBeNil)

	actualMap := make(map[string]any)
	err = json.Unmarshal([]byte(actualParts[5]), &actualMap)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func newBufferLogger(name string, level Level) (*impl, *bytes.Buffer) {
	notStdout := &bytes.Buffer{}
	return newImpl(name, level, true, NewWriterAppender(notStdout)), notStdout
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, notStdout := newBufferLogger("impl", DEBUG)

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459Z	INFO	impl	logging/impl_test.go:87	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764Z	INFO	impl	logging/impl_test.go:91	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806Z	INFO	impl	logging/impl_test.go:95	impl logw	{"key":"value"}`)

	logger.Infow("StructWithStruct", "key", "val", "StructWithStruct", StructWithStruct{1, User{"alice"}, "foo"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	INFO	impl	logging/impl_test.go:99	StructWithStruct	{"StructWithStruct":{"Y":{"Name":"alice"}},"key":"val"}`)

	logger.Infow("BasicStruct", "implOneKey", "1val", "BasicStruct", BasicStruct{1, "alice", "foo"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	INFO	impl	logging/impl_test.go:103	BasicStruct	{"BasicStruct":{"X":1},"implOneKey":"1val"}`)

	logger.Warnw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	WARN	impl	logging/impl_test.go:107	unpaired	{"lonely":"unpaired log key"}`)

	logger.Errorf("quaternion %s", fmt.Sprint([]float64{1, 0, 0, 0}))
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	ERROR	impl	logging/impl_test.go:111	quaternion [1 0 0 0]`)
}

func TestLevels(t *testing.T) {
	logger, notStdout := newBufferLogger("levels", WARN)
	logger.Debug("hidden")
	logger.Info("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
	logger.Warn("shown")
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129Z	WARN	levels	logging/impl_test.go:120	shown`)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, logger.Level(), test.ShouldEqual, zapcore.DebugLevel)
	logger.Debugw("now shown", "n", 1)
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129Z	DEBUG	levels	logging/impl_test.go:126	now shown	{"n":1}`)

	logger.SetLevel(ERROR)
	logger.Debug("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
	ctx := EnableDebugMode(context.Background(), "")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, GetName(ctx), test.ShouldHaveLength, 6)
	logger.CDebugw(ctx, "request debugged")
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129Z	DEBUG	levels	logging/impl_test.go:136	request debugged`)
	test.That(t, IsDebugMode(context.Background()), test.ShouldBeFalse)
}

func TestLevelParsing(t *testing.T) {
	for input, expected := range map[string]Level{"debug": DEBUG, "INFO": INFO, "Warning": WARN, " error ": ERROR} {
		level, err := LevelFromString(input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
	}
	_, err := LevelFromString("trace")
	test.That(t, err, test.ShouldNotBeNil)

	data, err := json.Marshal(WARN)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"warn"`)
	var level Level
	test.That(t, json.Unmarshal([]byte(`"error"`), &level), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)
	test.That(t, json.Unmarshal([]byte(`"loud"`), &level), test.ShouldNotBeNil)

	atomicLevel := NewAtomicLevelAt(INFO)
	shared := atomicLevel
	shared.Set(DEBUG)
	test.That(t, atomicLevel.Get(), test.ShouldEqual, DEBUG)
}

func TestSublogger(t *testing.T) {
	logger, notStdout := newBufferLogger("rotviz-test-parent", INFO)
	logger.registry = newRegistry()
	sub := logger.Sublogger("child")
	test.That(t, sub.GetLevel(), test.ShouldEqual, INFO)
	sub.Info("from child")
	assertLogMatches(t, notStdout, `2023-10-30T13:20:47.129Z	INFO	rotviz-test-parent.child	logging/impl_test.go:174	from child`)

	test.That(t, logger.Sublogger("child"), test.ShouldEqual, sub)
	_, ok := logger.registry.loggerNamed("rotviz-test-parent.child")
	test.That(t, ok, test.ShouldBeTrue)

	// sublogger levels are independent of the parent
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("observed", "repr", "quaternion")
	logger.Debug("also observed")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entry := logs.All()[0]
	test.That(t, entry.Message, test.ShouldEqual, "observed")
	test.That(t, entry.ContextMap()["repr"], test.ShouldEqual, "quaternion")
	test.That(t, logs.FilterMessage("also observed").Len(), test.ShouldEqual, 1)
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestDesugar(t *testing.T) {
	logger, notStdout := newBufferLogger("desugar", INFO)
	zl := logger.Desugar()
	zl.Debug("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	zl.With(zap.String("session", "abc")).Info("through zap", zap.Int("n", 2))
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129Z	INFO	desugar	logging/impl_test.go:199	through zap	{"session":"abc","n":2}`)

	zap.NewStdLog(zl).Print("from net/http")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "from net/http")
	notStdout.Reset()

	// the zap logger follows level changes on the original
	logger.SetLevel(ERROR)
	zl.Info("hidden")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
	zl.Error("shown")
	test.That(t, notStdout.String(), test.ShouldContainSubstring, "shown")
}

func TestUnpairedKeys(t *testing.T) {
	fields := sweeten([]interface{}{"a", 1, "b"})
	test.That(t, len(fields), test.ShouldEqual, 2)
	test.That(t, fields[0].Key, test.ShouldEqual, "a")
	test.That(t, fields[1].Key, test.ShouldEqual, "b")
	test.That(t, sweeten(nil), test.ShouldBeNil)
}
