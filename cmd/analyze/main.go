package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dagmawibabi/telesight/internal/analytics"
	"github.com/dagmawibabi/telesight/internal/archive"
	"github.com/dagmawibabi/telesight/internal/calendar"
	"github.com/dagmawibabi/telesight/internal/detect"
	"github.com/dagmawibabi/telesight/internal/graph"
	"github.com/dagmawibabi/telesight/internal/models"
	"github.com/dagmawibabi/telesight/internal/scoring"
)

const usage = `usage: analyze -file export.json -op OP [options]

Operations:
  fraud, manipulation, conflict   run a detector over the export
  exchanges                       heated exchange windows
  replies, forwards               reply / forward graph
  members, interactions, topics   member statistics
  score                           engagement score for -id, or all posts
  similar                         posts similar to -id (requires -id)
  calendar                        time-window stats (-year/-month/-day)
`

func main() {
	var (
		file         = flag.String("file", "", "path to exported chat JSON")
		op           = flag.String("op", "", "analysis to run")
		id           = flag.Int("id", 0, "message id for score/similar")
		limit        = flag.Int("limit", 10, "max results for similar and detectors")
		crossChannel = flag.Bool("cross-channel", false, "include replies to messages outside the export")
		minSeverity  = flag.String("min-severity", "", "minimum detector severity")
		year         = flag.Int("year", 0, "calendar scope year")
		month        = flag.Int("month", 0, "calendar scope month")
		day          = flag.Int("day", 0, "calendar scope day")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	if *file == "" || *op == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot open export file")
	}
	defer f.Close()

	export, err := archive.Parse(f)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot parse export file")
	}
	logger.Info().
		Str("name", export.Name).
		Int("messages", len(export.Messages)).
		Msg("export loaded")

	out, err := run(export, *op, *id, *limit, *crossChannel, *minSeverity, calendar.Scope{Year: *year, Month: *month, Day: *day})
	if err != nil {
		logger.Fatal().Err(err).Msg("analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal().Err(err).Msg("cannot encode result")
	}
}

func run(export *models.Export, op string, id, limit int, crossChannel bool, minSeverity string, scope calendar.Scope) (interface{}, error) {
	msgs := export.Messages

	switch op {
	case "fraud":
		return detect.FindAll(detect.NewFraudDetector(), msgs, detect.Options{MinSeverity: minSeverity, MaxResults: limit}), nil
	case "manipulation":
		return detect.FindAll(detect.NewManipulationDetector(), msgs, detect.Options{MinSeverity: minSeverity, MaxResults: limit}), nil
	case "conflict":
		return detect.FindAll(detect.NewConflictDetector(), msgs, detect.Options{MinSeverity: minSeverity, MaxResults: limit}), nil
	case "exchanges":
		return detect.NewConflictDetector().FindHeatedExchanges(msgs), nil
	case "replies":
		return graph.BuildReplyGraph(msgs, crossChannel), nil
	case "forwards":
		return graph.BuildForwardGraph(msgs), nil
	case "members":
		return analytics.MemberStats(msgs), nil
	case "interactions":
		return analytics.InteractionMap(msgs), nil
	case "topics":
		return analytics.Topics(msgs), nil
	case "score":
		if id == 0 {
			return scoring.ScoreAll(msgs), nil
		}
		m := findMessage(msgs, id)
		if m == nil {
			return nil, fmt.Errorf("message %d not found", id)
		}
		return scoring.Score(m, msgs), nil
	case "similar":
		m := findMessage(msgs, id)
		if m == nil {
			return nil, fmt.Errorf("message %d not found", id)
		}
		return scoring.FindSimilar(m, msgs, limit), nil
	case "calendar":
		return calendar.Compute(msgs, scope), nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

func findMessage(msgs []models.Message, id int) *models.Message {
	for i := range msgs {
		if msgs[i].ID == id && msgs[i].IsContent() {
			return &msgs[i]
		}
	}
	return nil
}
