// Command jira-lens is a thin caller around the adapter: it loads the
// configuration, runs one operation, and prints the resulting object as
// JSON. All business logic lives in internal/jira.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nhle/jira-lens/internal/credential"
	"github.com/nhle/jira-lens/internal/jira"
	"github.com/nhle/jira-lens/internal/model"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "jira-lens:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: jira-lens <issue|search|baseline|token> [flags]")
	}

	// Token management has to work before a valid configuration exists.
	if args[0] == "token" {
		return runToken(os.Stdin, args[1:])
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}
	adapter := jira.NewAdapter(cfg)
	ctx := context.Background()

	switch args[0] {
	case "issue":
		return runIssue(ctx, adapter, args[1:])
	case "search":
		return runSearch(ctx, adapter, args[1:])
	case "baseline":
		return runBaseline(ctx, adapter, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runToken stores or clears the API token in the system keyring, where
// the config loader finds it when the file and environment carry none.
func runToken(stdin io.Reader, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: jira-lens token <set|clear>")
	}

	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("token set", flag.ContinueOnError)
		value := fs.String("value", "", "API token (read from stdin when omitted)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		token := *value
		if token == "" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("reading token from stdin: %w", err)
			}
			token = strings.TrimSpace(string(data))
		}
		if token == "" {
			return fmt.Errorf("token value is empty")
		}
		return credential.Set(credential.APITokenKey, token)
	case "clear":
		return credential.Delete(credential.APITokenKey)
	default:
		return fmt.Errorf("unknown token action %q", args[0])
	}
}

func runIssue(ctx context.Context, adapter *jira.Adapter, args []string) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	key := fs.String("key", "", "issue key (required)")
	skipComments := fs.Bool("skip-comments", false, "do not load comments")
	allComments := fs.Bool("all-comments", false, "load every comment")
	rawDoc := fs.Bool("raw-document", false, "return the description as a rich-text tree")
	if err := fs.Parse(args); err != nil {
		return err
	}

	issue, err := adapter.GetIssue(ctx, *key, jira.GetIssueOptions{
		CommentMode: jira.ResolveCommentMode(*skipComments, *allComments),
		RawDocument: *rawDoc,
	})
	if err != nil {
		return err
	}
	return printJSON(issue)
}

func runSearch(ctx context.Context, adapter *jira.Adapter, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	jql := fs.String("jql", "", "raw JQL query")
	project := fs.String("project", "", "project key filter")
	pageSize := fs.Int("page-size", 25, "maximum issues per page")
	pageToken := fs.String("page-token", "", "continuation token")
	strict := fs.Bool("strict", false, "safe-list mode with a hard 50-result cap")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *strict {
		page, err := adapter.SafeSearch(ctx, *jql)
		if err != nil {
			return err
		}
		return printJSON(page)
	}

	page, err := adapter.SearchIssues(ctx, jira.SearchFilters{
		Project: *project,
		Raw:     *jql,
	}, jira.SearchOptions{
		PageSize:  *pageSize,
		PageToken: *pageToken,
	})
	if err != nil {
		return err
	}
	return printJSON(page)
}

func runBaseline(ctx context.Context, adapter *jira.Adapter, args []string) error {
	fs := flag.NewFlagSet("baseline", flag.ContinueOnError)
	project := fs.String("project", "", "project key (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	baseline, err := adapter.ProjectBaseline(ctx, *project)
	if err != nil {
		return err
	}
	return printJSON(baseline)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
