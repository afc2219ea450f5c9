package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/export"
	"docverify/internal/workspace"
)

const shellHelp = `Commands:
  list                    reload and show the document list
  open <id|#n>            select a document (n is the list position)
  show                    show the current document
  edit <field> <value>    set an unsaved draft for a field
  cancel <field>          discard the draft of a field
  save [field]            save one field, or every unsaved draft
  upload <path>           stage a PNG, JPG or PDF file
  extract                 upload the staged file and extract its fields
  delete [id|#n]          delete a document (default: the current one)
  export <csv|xlsx> [path] write the current fields to a file
  help                    show this help
  quit                    leave the shell`

// errUsage marks operator input the shell could not interpret.
var errUsage = errors.New("usage")

// Shell is an interactive loop driving one workspace session.
type Shell struct {
	session  *workspace.Session
	in       *LineReader
	out      io.Writer
	readFile func(string) ([]byte, error)
	now      func() time.Time
}

// NewShell creates a shell over session reading commands from in.
func NewShell(session *workspace.Session, in *LineReader, out io.Writer) *Shell {
	return &Shell{
		session:  session,
		in:       in,
		out:      out,
		readFile: os.ReadFile,
		now:      time.Now,
	}
}

// Run reads and executes commands until quit, end of input, or ctx ends.
func (sh *Shell) Run(ctx context.Context) error {
	sh.println(FormatTitle("docverify review shell") + SubtleStyle.Render("  (type help for commands)"))
	if _, err := sh.session.Refresh(ctx); err == nil {
		sh.println(RenderDocumentList(sh.session.View().Documents))
	}

	for {
		sh.print(FormatPrompt(sh.promptLabel()))
		line, err := sh.in.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInputCanceled) {
				sh.println("")
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		quit, err := sh.Execute(ctx, line)
		if err != nil {
			sh.report(err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the shell should exit.
func (sh *Shell) Execute(ctx context.Context, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		sh.println(shellHelp)
		return false, nil
	case "list", "ls", "refresh":
		docs, err := sh.session.Refresh(ctx)
		if err != nil {
			return false, surfaced(err)
		}
		sh.println(RenderDocumentList(docs))
		return false, nil
	case "open", "select":
		return false, sh.open(ctx, rest)
	case "show":
		sh.println(RenderDocument(sh.session.View()))
		return false, nil
	case "edit", "set":
		return false, sh.edit(rest)
	case "cancel":
		return false, sh.cancel(rest)
	case "save":
		return false, sh.save(ctx, rest)
	case "upload", "stage":
		return false, sh.upload(rest)
	case "extract":
		return false, sh.extract(ctx)
	case "delete", "rm":
		return false, sh.delete(ctx, rest)
	case "export":
		return false, sh.export(rest)
	default:
		return false, fmt.Errorf("%w: unknown command %q (type help)", errUsage, cmd)
	}
}

func (sh *Shell) open(ctx context.Context, arg string) error {
	if arg == "" {
		return fmt.Errorf("%w: open <id|#n>", errUsage)
	}
	id, err := sh.resolveDocument(arg)
	if err != nil {
		return err
	}
	if _, err := sh.session.Select(ctx, id); err != nil {
		return surfaced(err)
	}
	sh.println(RenderDocument(sh.session.View()))
	return nil
}

func (sh *Shell) edit(arg string) error {
	name, value, ok := strings.Cut(arg, " ")
	if !ok || name == "" {
		return fmt.Errorf("%w: edit <field> <value>", errUsage)
	}
	fieldID, err := sh.resolveField(name)
	if err != nil {
		return err
	}
	if err := sh.session.Corrections().EditField(fieldID, strings.TrimSpace(value)); err != nil {
		return err
	}
	sh.println(SubtleStyle.Render("Draft set. Use save " + name + " to persist it."))
	return nil
}

func (sh *Shell) cancel(arg string) error {
	if arg == "" {
		return fmt.Errorf("%w: cancel <field>", errUsage)
	}
	fieldID, err := sh.resolveField(arg)
	if err != nil {
		return err
	}
	return sh.session.Corrections().CancelEdit(fieldID)
}

// save persists one field, or with no argument each unsaved draft in turn.
// Every draft is its own SaveField call: the loop stops at the first
// failure and fields saved before it stay saved.
func (sh *Shell) save(ctx context.Context, arg string) error {
	if arg != "" {
		fieldID, err := sh.resolveField(arg)
		if err != nil {
			return err
		}
		_, err = sh.session.Corrections().SaveField(ctx, fieldID)
		return surfaced(err)
	}

	view := sh.session.View()
	if view.Current == nil {
		return domain.ErrNoCurrentDocument
	}
	saved := 0
	for _, e := range view.Fields {
		if !e.Dirty() {
			continue
		}
		if _, err := sh.session.Corrections().SaveField(ctx, e.ID); err != nil {
			return surfaced(err)
		}
		saved++
	}
	if saved == 0 {
		sh.println(SubtleStyle.Render("Nothing to save."))
	}
	return nil
}

func (sh *Shell) upload(path string) error {
	if path == "" {
		return fmt.Errorf("%w: upload <path>", errUsage)
	}
	data, err := sh.readFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	staged, err := sh.session.Extraction().Stage(filepath.Base(path), data)
	if err != nil {
		return surfaced(err)
	}
	sh.println(FormatInfo(fmt.Sprintf("Staged %s (%s, %d bytes). Run extract to process it.", staged.Name, staged.ContentType, len(staged.Data))))
	return nil
}

func (sh *Shell) extract(ctx context.Context) error {
	err := WithSpinner(sh.out, "Extracting fields...", func() error {
		_, err := sh.session.Extraction().Extract(ctx)
		return err
	})
	if err != nil {
		return surfaced(err)
	}
	sh.println(RenderDocument(sh.session.View()))
	return nil
}

func (sh *Shell) delete(ctx context.Context, arg string) error {
	id := sh.session.CurrentID()
	if arg != "" {
		var err error
		if id, err = sh.resolveDocument(arg); err != nil {
			return err
		}
	}
	if id == "" {
		return domain.ErrNoCurrentDocument
	}
	return surfaced(sh.session.DeleteDocument(ctx, id))
}

func (sh *Shell) export(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return fmt.Errorf("%w: export <csv|xlsx> [path]", errUsage)
	}
	format, err := export.ParseFormat(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	view := sh.session.View()
	if view.Current == nil {
		return domain.ErrNoCurrentDocument
	}
	path := export.BuildFilename(view.Current.FileName, format, sh.now())
	if len(fields) > 1 {
		path = fields[1]
	}

	if err := WriteExportFile(path, format, view); err != nil {
		return err
	}
	sh.println(FormatSuccess("Exported " + strconv.Itoa(len(view.Fields)) + " fields to " + path))
	return nil
}

// WriteExportFile writes the ledger of v to path in format.
func WriteExportFile(path string, format export.Format, v workspace.View) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.Write(f, format, v.Current, v.Fields)
}

// resolveDocument accepts a document id, or a 1-based list position as
// "#n" or "n" when it matches the cached list.
func (sh *Shell) resolveDocument(arg string) (string, error) {
	docs := sh.session.View().Documents
	pos := strings.TrimPrefix(arg, "#")
	if n, err := strconv.Atoi(pos); err == nil {
		if n >= 1 && n <= len(docs) {
			return docs[n-1].ID, nil
		}
		if strings.HasPrefix(arg, "#") {
			return "", fmt.Errorf("%w: no document at position %d", errUsage, n)
		}
	}
	return arg, nil
}

// resolveField maps a field name or id to the id in the current ledger.
func (sh *Shell) resolveField(nameOrID string) (string, error) {
	view := sh.session.View()
	if view.Current == nil {
		return "", domain.ErrNoCurrentDocument
	}
	for _, e := range view.Fields {
		if e.FieldName == nameOrID || e.ID == nameOrID {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrFieldNotInLedger, nameOrID)
}

// notifiedError wraps an error returned by a session operation that may
// already have raised a notification for it.
type notifiedError struct{ err error }

func (e notifiedError) Error() string { return e.err.Error() }
func (e notifiedError) Unwrap() error { return e.err }

func surfaced(err error) error {
	if err == nil {
		return nil
	}
	return notifiedError{err: err}
}

// report prints errors the session has not already surfaced as notifications.
func (sh *Shell) report(err error) {
	var notified notifiedError
	switch {
	case errors.Is(err, domain.ErrDeletionCanceled):
		sh.println(SubtleStyle.Render("Deletion canceled."))
	case errors.Is(err, domain.ErrNoCurrentDocument),
		errors.Is(err, domain.ErrFieldNotInLedger):
		sh.println(FormatError(err.Error()))
	case errors.As(err, &notified):
		log.Debug().Err(err).Msg("shell: command failed")
	default:
		sh.println(FormatError(err.Error()))
	}
}

func (sh *Shell) promptLabel() string {
	v := sh.session.View()
	switch {
	case v.Staged != nil && v.Current == nil:
		return "docverify [staged: " + v.Staged.Name + "]"
	case v.Current != nil:
		return "docverify [" + v.Current.FileName + "]"
	default:
		return "docverify"
	}
}

func (sh *Shell) print(s string) {
	_, _ = fmt.Fprint(sh.out, s)
}

func (sh *Shell) println(s string) {
	_, _ = fmt.Fprintln(sh.out, s)
}
