package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/quizforge/quizgrade/internal/answerkey"
	"github.com/quizforge/quizgrade/internal/scoring"
)

// quizgrade grades an answers file against a key document and prints a
// report. Exit code 0 means the score was computed, whatever it was;
// non-zero means the inputs could not be read or parsed.
func main() {
	keyPath := flag.String("key", "", "path to the answer key (.json stored key or .md authoring doc)")
	version := flag.String("version", "full", "quiz version label for the report")
	flag.Parse()

	if *keyPath == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: quizgrade -key <keyfile> [-version <label>] <answersfile>")
		os.Exit(2)
	}

	table, err := loadKey(*keyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quizgrade: %v\n", err)
		os.Exit(1)
	}
	answers, err := loadAnswers(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "quizgrade: %v\n", err)
		os.Exit(1)
	}

	reg, err := answerkey.New(map[string]answerkey.Table{*version: table})
	if err != nil {
		fmt.Fprintf(os.Stderr, "quizgrade: %v\n", err)
		os.Exit(1)
	}
	res := scoring.NewEngine(reg).Score(context.Background(), *version, answers)
	printReport(res)
}

func loadKey(path string) (answerkey.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return answerkey.ParseKeyJSON(data)
	}
	return answerkey.ParseAuthoringDoc(data)
}

var lineAnswer = regexp.MustCompile(`^(\d+)[.)]\s*(.*)$`)

// loadAnswers accepts either a JSON object {"1":"B",...} or plain lines
// of the form "1. B".
func loadAnswers(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var raw map[string]string
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, fmt.Errorf("parse answers json: %w", err)
		}
		out := make(map[int]string, len(raw))
		for k, v := range raw {
			n, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				return nil, fmt.Errorf("answers json: key %q is not a question number", k)
			}
			out[n] = v
		}
		return out, nil
	}

	out := map[int]string{}
	for ln, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := lineAnswer.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: expected \"N. answer\", got %q", ln+1, line)
		}
		n, _ := strconv.Atoi(m[1])
		out[n] = strings.TrimSpace(m[2])
	}
	return out, nil
}

func printReport(res scoring.Result) {
	color.Cyan("\n=== Quiz Report (%s) ===", res.Version)
	fmt.Printf("Questions: %d   Correct: %d   Incorrect: %d   Missing: %d\n",
		res.TotalQuestions, res.Correct, res.Incorrect, res.Missing)
	fmt.Printf("Points: %d/%d   Percentage: %.2f%%\n", res.EarnedPoints, res.TotalPoints, res.Percentage)

	switch res.Grade {
	case scoring.GradeMaster, scoring.GradeExpert:
		color.Green("Grade: %s", res.Grade)
	case scoring.GradePass:
		color.Yellow("Grade: %s", res.Grade)
	default:
		color.Red("Grade: %s", res.Grade)
	}

	if len(res.ByTopic) == 0 {
		return
	}
	topics := make([]string, 0, len(res.ByTopic))
	for t := range res.ByTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	color.Yellow("\nTopic Breakdown")
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Topic", "Correct", "Total", "Points", "Max"})
	for _, t := range topics {
		ts := res.ByTopic[t]
		tw.Append([]string{
			t,
			strconv.Itoa(ts.Correct),
			strconv.Itoa(ts.Total),
			strconv.Itoa(ts.Points),
			strconv.Itoa(ts.MaxPoints),
		})
	}
	tw.Render()
}
