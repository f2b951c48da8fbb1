// Package remove deletes a logged period.
package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/cycle/pkg/app"
	"tableflip.dev/cycle/pkg/interaction"
	"tableflip.dev/cycle/pkg/period"
)

// Confirm asks whether the period should really be deleted.
type Confirm func(p period.Period) (bool, error)

type Remove struct {
	Session *app.Session
	ID      string
	Yes     bool
	// Confirm defaults to a promptui confirmation.
	Confirm Confirm
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Session == nil {
		return errors.New("can not delete, no session")
	}
	p, ok := period.Find(r.Session.Repository.Periods(), r.ID)
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrPeriodMissing, r.ID)
	}
	if !r.Yes {
		confirm := r.Confirm
		if confirm == nil {
			confirm = PromptConfirm
		}
		ok, err := confirm(p)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(color.Output, "Nothing deleted.")
			return nil
		}
	}
	if err := r.Session.DeletePeriod(ctx, p.ID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "Deleted %s.\n", p.Range())
	return nil
}

// PromptConfirm asks on the terminal with the same wording as the calendar's
// delete dialog.
func PromptConfirm(p period.Period) (bool, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | red }} ",
		Success: "{{ . | bold }} ",
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s %s %s", interaction.DeleteTitle, p.Range(), interaction.DeleteMessage),
		Templates: templates,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
