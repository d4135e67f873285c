// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/blackboxvault/vaultguard/lib/audit"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("vaultguard-audit", pflag.ContinueOnError)
	asJSON := flags.Bool("json", false, "emit one JSON object per record")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: vaultguard-audit [--json] <audit-log>")
	}

	records, err := audit.Read(flags.Arg(0))
	if err != nil {
		return err
	}
	if *asJSON {
		return renderJSON(records, out)
	}
	return renderTable(records, out)
}

// jsonRecord is the externally visible shape of an audit record. The
// on-disk integer keys stay an implementation detail of the log.
type jsonRecord struct {
	Time            string `json:"time"`
	Outcome         string `json:"outcome"`
	CandidateDigest string `json:"candidate_digest,omitempty"`
	Detail          string `json:"detail,omitempty"`
}

func renderJSON(records []audit.Record, out io.Writer) error {
	encoder := json.NewEncoder(out)
	for _, record := range records {
		err := encoder.Encode(jsonRecord{
			Time:            time.Unix(record.Time, 0).UTC().Format(time.RFC3339),
			Outcome:         record.Outcome,
			CandidateDigest: record.CandidateDigest,
			Detail:          record.Detail,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func renderTable(records []audit.Record, out io.Writer) error {
	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "TIME\tOUTCOME\tDIGEST\tDETAIL")
	for _, record := range records {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\n",
			time.Unix(record.Time, 0).UTC().Format(time.RFC3339),
			record.Outcome, record.CandidateDigest, record.Detail)
	}
	return table.Flush()
}
