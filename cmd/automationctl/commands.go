package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/auth"
)

func catalogCmd(s *session) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the triggers, actions and searches on offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := s.registry().Catalog()
			switch app.Kind(kind) {
			case "":
			case app.KindTrigger:
				catalog.Actions, catalog.Searches = nil, nil
			case app.KindAction:
				catalog.Triggers, catalog.Searches = nil, nil
			case app.KindSearch:
				catalog.Triggers, catalog.Actions = nil, nil
			default:
				return fmt.Errorf("unknown kind %q", kind)
			}
			return render(s.out, s.format(), catalog)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show trigger, action or search")
	return cmd
}

func triggerCmd(s *session) *cobra.Command {
	trg := &cobra.Command{Use: "trigger", Short: "Poll, subscribe and unsubscribe triggers"}
	trg.AddCommand(triggerListCmd(s))
	trg.AddCommand(triggerPerformCmd(s))
	trg.AddCommand(triggerSubscribeCmd(s))
	trg.AddCommand(triggerUnsubscribeCmd(s))
	return trg
}

func triggerListCmd(s *session) *cobra.Command {
	var limit, page int
	cmd := &cobra.Command{
		Use:   "list <key>",
		Short: "Poll the newest records of a trigger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.registry().Trigger(args[0])
			if err != nil {
				return err
			}
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			records, err := t.List(cmd.Context(), domain.Bundle{
				AuthData: creds,
				Meta:     domain.Meta{Limit: limit, Page: page},
			})
			if err != nil {
				return err
			}
			return render(s.out, s.format(), records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 100)")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	return cmd
}

func triggerPerformCmd(s *session) *cobra.Command {
	var payload string
	cmd := &cobra.Command{
		Use:   "perform <key>",
		Short: "Run a trigger on a pushed payload, or poll when none is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.registry().Trigger(args[0])
			if err != nil {
				return err
			}
			b := domain.Bundle{}
			if payload != "" {
				raw, err := readJSON(payload)
				if err != nil {
					return err
				}
				b.CleanedRequest = raw
			} else if b.AuthData, err = s.credentials(); err != nil {
				return err
			}
			records, err := t.Perform(cmd.Context(), b)
			if err != nil {
				return err
			}
			if s.format() == formatTable {
				return render(s.out, s.format(), records)
			}
			return render(s.out, s.format(), app.Deliveries(records))
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "JSON or YAML file holding a pushed payload, - for stdin")
	return cmd
}

func triggerSubscribeCmd(s *session) *cobra.Command {
	var targetURL string
	cmd := &cobra.Command{
		Use:   "subscribe <key>",
		Short: "Ask the ERP to push a trigger's events to a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.registry().Trigger(args[0])
			if err != nil {
				return err
			}
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			handle, err := t.Subscribe(cmd.Context(), domain.Bundle{AuthData: creds, TargetURL: targetURL})
			if err != nil {
				return err
			}
			return render(s.out, s.format(), handle)
		},
	}
	cmd.Flags().StringVar(&targetURL, "target-url", "", "URL the ERP posts events to")
	_ = cmd.MarkFlagRequired("target-url")
	return cmd
}

func triggerUnsubscribeCmd(s *session) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "unsubscribe <key>",
		Short: "Delete a webhook subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := s.registry().Trigger(args[0])
			if err != nil {
				return err
			}
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			if _, err := t.Unsubscribe(cmd.Context(), domain.Bundle{
				AuthData:      creds,
				SubscribeData: domain.Record{"id": id},
			}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(s.out, "unsubscribed %s\n", id)
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "subscription id returned by subscribe")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// inputFlags holds --input key=value pairs and an optional --input-file
type inputFlags struct {
	pairs []string
	file  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.pairs, "input", "i", nil, "input field as key=value, repeatable")
	cmd.Flags().StringVar(&f.file, "input-file", "", "JSON or YAML file of input fields, - for stdin")
}

// record merges the file and the pairs; pairs win
func (f *inputFlags) record() (domain.Record, error) {
	fields := map[string]any{}
	if f.file != "" {
		raw, err := readJSON(f.file)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%s: input must be an object: %w", f.file, err)
		}
	}
	for _, pair := range f.pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("input %q is not key=value", pair)
		}
		fields[strings.TrimSpace(key)] = value
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return domain.DecodeRecord(raw)
}

func actionCmd(s *session) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "action <key>",
		Short: "Create or update one ERP entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.registry().Action(args[0])
			if err != nil {
				return err
			}
			input, err := in.record()
			if err != nil {
				return err
			}
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			out, err := a.Perform(cmd.Context(), domain.Bundle{AuthData: creds, InputData: input})
			if err != nil {
				return err
			}
			return render(s.out, s.format(), out)
		},
	}
	in.register(cmd)
	return cmd
}

func searchCmd(s *session) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "search <key>",
		Short: "Look up ERP entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search, err := s.registry().Search(args[0])
			if err != nil {
				return err
			}
			input, err := in.record()
			if err != nil {
				return err
			}
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			records, err := search.Perform(cmd.Context(), domain.Bundle{AuthData: creds, InputData: input})
			if err != nil {
				return err
			}
			return render(s.out, s.format(), records)
		},
	}
	in.register(cmd)
	return cmd
}

func oauthCmd(s *session) *cobra.Command {
	o := &cobra.Command{Use: "oauth", Short: "Connect an ERP account by hand"}
	o.AddCommand(oauthAuthorizeURLCmd(s))
	o.AddCommand(oauthExchangeCmd(s))
	o.AddCommand(oauthRefreshCmd(s))
	o.AddCommand(oauthTestCmd(s))
	return o
}

func oauthAuthorizeURLCmd(s *session) *cobra.Command {
	var redirectURI string
	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print an authorize URL with a fresh state and PKCE verifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.oauth()
			if err != nil {
				return err
			}
			state, verifier := uuid.NewString(), oauth2.GenerateVerifier()
			return render(s.out, s.format(), domain.Record{
				"authorize_url": svc.AuthorizeURL(state, redirectURI, verifier),
				"state":         state,
				"code_verifier": verifier,
			})
		},
	}
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI (default from config)")
	return cmd
}

func oauthExchangeCmd(s *session) *cobra.Command {
	var code, redirectURI, verifier string
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Trade an authorization code for tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.oauth()
			if err != nil {
				return err
			}
			tokens, err := svc.ExchangeCode(cmd.Context(), code, redirectURI, verifier)
			if err != nil {
				return err
			}
			return render(s.out, s.format(), tokens)
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI used for authorize-url")
	cmd.Flags().StringVar(&verifier, "code-verifier", "", "PKCE verifier printed by authorize-url")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func oauthRefreshCmd(s *session) *cobra.Command {
	var refreshToken string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Trade a refresh token for a new token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.oauth()
			if err != nil {
				return err
			}
			tokens, err := svc.Refresh(cmd.Context(), refreshToken)
			if err != nil {
				return err
			}
			return render(s.out, s.format(), tokens)
		},
	}
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token")
	_ = cmd.MarkFlagRequired("refresh-token")
	return cmd
}

func oauthTestCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the access token and print the connection label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := s.credentials()
			if err != nil {
				return err
			}
			svc, err := s.oauth()
			if err != nil {
				return err
			}
			result, err := app.NewConnectionService(svc, app.WithLogger(s.log)).Test(cmd.Context(), creds.AccessToken)
			if err != nil {
				return err
			}
			return render(s.out, s.format(), result)
		},
	}
}

func tokenCmd(s *session) *cobra.Command {
	t := &cobra.Command{Use: "token", Short: "Manage host platform tokens"}
	t.AddCommand(tokenIssueCmd(s))
	return t
}

func tokenIssueCmd(s *session) *cobra.Command {
	var subject, platform string
	var scopes []string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a host token with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, expiresAt, err := auth.NewHostTokenService(s.cfg.Host).Issue(auth.IssueInput{
				Subject:  subject,
				Platform: platform,
				Scopes:   scopes,
				TTL:      ttl,
			})
			if err != nil {
				return err
			}
			return render(s.out, s.format(), domain.Record{
				"token":      token,
				"expires_at": expiresAt.UTC().Format(time.RFC3339),
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "host account id")
	cmd.Flags().StringVar(&platform, "platform", "", "host platform name")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "granted scopes (default: all)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "lifetime (default from config)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// readJSON reads a JSON or YAML document from path, or stdin for "-", and
// returns it as JSON
func readJSON(path string) (json.RawMessage, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if json.Valid(data) {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: neither JSON nor YAML: %w", path, err)
	}
	return json.Marshal(doc)
}
