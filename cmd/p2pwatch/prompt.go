package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// MinRecommendedInterval is the shortest interval accepted without a warning.
	MinRecommendedInterval = 5 * time.Minute

	// MinInterval is the shortest interval accepted at all.
	MinInterval = time.Second
)

// minutesToDuration parses a number of minutes such as "5" or "2.5".
// The result must be at least MinInterval and fit in a time.Duration.
func minutesToDuration(s string) (time.Duration, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("%q is not a number of minutes", s)
	}
	ns := minutes * float64(time.Minute)
	if ns < float64(MinInterval) || ns > float64(math.MaxInt64) {
		return 0, fmt.Errorf("%q minutes is out of range", s)
	}
	return time.Duration(ns), nil
}

// promptAnswers holds what the interactive setup asks for.
type promptAnswers struct {
	Chat     bool
	Quests   bool
	Interval time.Duration
}

// promptSettings asks which events to monitor and how often to poll.
// An empty answer keeps the default; end of input keeps all remaining
// defaults.
func promptSettings(in io.Reader, out io.Writer, def promptAnswers) (promptAnswers, error) {
	sc := bufio.NewScanner(in)
	ans := def

	var err error
	if ans.Chat, err = askYesNo(sc, out, "Monitor chat segments?", def.Chat); err != nil {
		return eofDefaults(ans, def, err)
	}
	if ans.Quests, err = askYesNo(sc, out, "Monitor quest completions?", def.Quests); err != nil {
		return eofDefaults(ans, def, err)
	}
	if ans.Interval, err = askInterval(sc, out, def.Interval); err != nil {
		return eofDefaults(ans, def, err)
	}
	return ans, nil
}

// eofDefaults restores the interval default when input ends early.
func eofDefaults(ans, def promptAnswers, err error) (promptAnswers, error) {
	if !errors.Is(err, io.EOF) {
		return ans, err
	}
	if ans.Interval <= 0 {
		ans.Interval = def.Interval
	}
	return ans, nil
}

// readAnswer returns the next trimmed line, or io.EOF.
func readAnswer(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sc.Text()), nil
}

func askYesNo(sc *bufio.Scanner, out io.Writer, question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(out, "%s [%s]: ", question, hint)
		line, err := readAnswer(sc)
		if err != nil {
			return def, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}

func askInterval(sc *bufio.Scanner, out io.Writer, def time.Duration) (time.Duration, error) {
	for {
		fmt.Fprintf(out, "Check interval in minutes [%g]: ", def.Minutes())
		line, err := readAnswer(sc)
		if err != nil {
			return def, err
		}
		if line == "" {
			return def, nil
		}

		d, err := minutesToDuration(line)
		if err != nil {
			fmt.Fprintln(out, "Please enter a positive number of minutes.")
			continue
		}
		if d < MinRecommendedInterval {
			fmt.Fprintf(out, "Warning: intervals below %g minutes reread the whole log file more often.\n",
				MinRecommendedInterval.Minutes())
		}
		return d, nil
	}
}
