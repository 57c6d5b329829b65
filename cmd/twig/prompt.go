package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/repo"
)

const dangerWarning = "This command may alter the files in your working directory. Uncommitted changes may be lost. Continue?"

// prompter collects operator input.
type prompter interface {
	Confirm(message string) (bool, error)
	Choose(message string, options []string) (string, error)
	Input(message string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var ok bool
	err := survey.AskOne(&survey.Confirm{Message: message}, &ok)
	return ok, err
}

func (surveyPrompter) Choose(message string, options []string) (string, error) {
	var choice string
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &choice)
	return choice, err
}

func (surveyPrompter) Input(message string) (string, error) {
	var text string
	err := survey.AskOne(&survey.Input{Message: message}, &text, survey.WithValidator(survey.Required))
	return text, err
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func aborted(op string, err error) error {
	if err == nil {
		return &repo.Error{Kind: repo.KindUser, Op: op, Err: repo.ErrAborted}
	}
	return &repo.Error{Kind: repo.KindUser, Op: op, Err: fmt.Errorf("%w: %v", repo.ErrAborted, err)}
}

// confirmDangerous asks before a command that overwrites working files.
// --yes or ui.confirm_dangerous = false skip the question; without a
// terminal to ask on the command is refused.
func confirmDangerous(opts *globalOptions, r *repo.Repo, op string) error {
	if opts.yes || !r.Config.UI.ConfirmDangerous {
		return nil
	}
	if !opts.interactive() {
		return &repo.Error{Kind: repo.KindUser, Op: op, Err: fmt.Errorf("%w: confirmation required; rerun with --yes", repo.ErrAborted)}
	}
	ok, err := opts.prompt.Confirm(dangerWarning)
	if err != nil {
		return aborted(op, err)
	}
	if !ok {
		return aborted(op, nil)
	}
	return nil
}

const (
	choiceContinue = "continue"
	choiceSkip     = "skip"
	choiceReword   = "reword"
)

// promptDecider asks the operator what to do with each replayed commit.
type promptDecider struct {
	prompt prompter
	out    io.Writer
}

func (d *promptDecider) Decide(c *object.Commit) (repo.Decision, error) {
	fmt.Fprintln(d.out, "Currently replaying:")
	writeCommit(d.out, c)

	for {
		choice, err := d.prompt.Choose("Continue, skip this commit, or change its message?",
			[]string{choiceContinue, choiceSkip, choiceReword})
		if err != nil {
			return repo.Decision{}, interrupted(err)
		}
		switch choice {
		case choiceContinue:
			return repo.Decision{Action: repo.Continue}, nil
		case choiceSkip:
			return repo.Decision{Action: repo.Skip}, nil
		case choiceReword:
			for {
				msg, err := d.prompt.Input("Please enter a new message for this commit.")
				if err != nil {
					return repo.Decision{}, interrupted(err)
				}
				if strings.TrimSpace(msg) != "" {
					return repo.Decision{Action: repo.Reword, Message: msg}, nil
				}
			}
		}
	}
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errors.New("interrupted")
	}
	return err
}
