package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/taskgo/client/apiclient"
	"github.com/taskgo/client/domain"
	"github.com/taskgo/client/internal/config"
	"github.com/taskgo/client/internal/lifecycle"
	"github.com/taskgo/client/internal/monitor"
	"github.com/taskgo/client/pkg/logger"
	"github.com/taskgo/client/repository/bolt"
	profileUC "github.com/taskgo/client/usecase/profile"
	sessionUC "github.com/taskgo/client/usecase/session"
	taskUC "github.com/taskgo/client/usecase/task"
)

type app struct {
	session *sessionUC.UseCase
	profile *profileUC.UseCase
	tasks   *taskUC.UseCase
	mon     *monitor.Monitor
	in      *bufio.Reader
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	creds, err := bolt.Open(cfg.Credentials.Path, cfg.Credentials.Bucket)
	if err != nil {
		log.Fatalf("credential store error: %v", err)
	}
	manager.Register("credential_store", func(ctx context.Context) error {
		return creds.Close()
	})

	api := apiclient.NewHTTP(apiclient.Config{
		BaseURL:      cfg.API.BaseURL,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		MaxConns:     cfg.API.MaxConns,
	}, zapLogger)
	manager.Register("api_client", func(ctx context.Context) error {
		return api.Close()
	})

	session := sessionUC.New(api, creds, zapLogger)

	a := &app{
		session: session,
		profile: profileUC.New(api, session, zapLogger),
		tasks:   taskUC.New(api, session, zapLogger),
		in:      bufio.NewReader(os.Stdin),
	}

	if cfg.Monitor.Enabled {
		a.mon = monitor.New(api, cfg.Monitor.Interval, zapLogger)
		a.mon.Start()
		manager.Register("monitor", func(ctx context.Context) error {
			a.mon.Stop()
			return nil
		})
	}

	ctx := context.Background()
	if user, err := session.Restore(ctx); err == nil && user != nil {
		fmt.Printf("Welcome back, %s.\n", user.Name)
	}

	a.repl(ctx)

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
}

func (a *app) repl(ctx context.Context) {
	fmt.Println("taskgo — type 'help' for commands")
	for {
		fmt.Print("> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			a.printHelp()
		case "status":
			a.printStatus()
		case "login":
			a.doLogin(ctx)
		case "register":
			a.doRegister(ctx)
		case "forgot":
			a.doForgot(ctx)
		case "whoami":
			a.doWhoami()
		case "profile":
			a.doProfile(ctx)
		case "edit":
			a.doEditProfile(ctx)
		case "tasks":
			a.doTasks(ctx)
		case "add":
			a.doAddTask(ctx)
		case "toggle":
			a.doToggle(ctx, args)
		case "rm":
			a.doDelete(ctx, args)
		case "logout":
			if err := a.session.Logout(ctx); err != nil {
				a.fail(err)
			} else {
				fmt.Println("Logged out.")
			}
		default:
			fmt.Printf("unknown command %q — type 'help'\n", cmd)
		}
	}
}

func (a *app) printHelp() {
	fmt.Println(`commands:
  login      authenticate with email and password
  register   create an account (then login)
  forgot     request a password reset email
  whoami     show the cached user
  profile    fetch the profile from the server
  edit       edit name/email/photo/password
  tasks      list tasks
  add        create a task
  toggle ID  flip a task's completed flag
  rm ID      delete a task
  logout     log out
  status     session state and server reachability
  quit       exit`)
}

func (a *app) printStatus() {
	fmt.Printf("session: %s\n", a.session.State())
	if a.mon == nil {
		fmt.Println("monitor: disabled")
		return
	}
	st := a.mon.GetStatus()
	if st.Online {
		fmt.Println("server: reachable")
	} else if st.CheckedAt.IsZero() {
		fmt.Println("server: not checked yet")
	} else {
		fmt.Printf("server: unreachable (%s)\n", st.LastError)
	}
}

func (a *app) doLogin(ctx context.Context) {
	email := a.prompt("email: ")
	password := a.promptSecret("password: ")
	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Printf("Welcome, %s!\n", user.Name)
}

func (a *app) doRegister(ctx context.Context) {
	name := a.prompt("name: ")
	email := a.prompt("email: ")
	password := a.promptSecret("password (min 6 chars): ")
	photo := a.prompt("photo URI (optional): ")
	user, err := a.session.Register(ctx, name, email, password, photo)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Printf("Account created for %s. Please log in.\n", user.Email)
}

func (a *app) doForgot(ctx context.Context) {
	email := a.prompt("email: ")
	msg, err := a.session.RequestPasswordReset(ctx, email)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Println(msg)
}

func (a *app) doWhoami() {
	user := a.session.User()
	if user == nil {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("%s <%s> (%s, %s)\n", user.Name, user.Email, user.Role, user.Status)
}

func (a *app) doProfile(ctx context.Context) {
	user, err := a.profile.Fetch(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.Photo != "" {
		fmt.Printf("photo: %s\n", user.Photo)
	}
}

func (a *app) doEditProfile(ctx context.Context) {
	cached := a.session.User()
	if cached == nil {
		fmt.Println("Not logged in.")
		return
	}
	edit := domain.ProfileEdit{
		Name:  a.promptDefault("name", cached.Name),
		Email: a.promptDefault("email", cached.Email),
		Photo: a.promptDefault("photo", cached.Photo),
	}
	if strings.EqualFold(a.prompt("change password? [y/N]: "), "y") {
		edit.PasswordChange = &domain.PasswordChange{
			CurrentPassword: a.promptSecret("current password: "),
			NewPassword:     a.promptSecret("new password: "),
			Confirm:         a.promptSecret("confirm new password: "),
		}
	}
	user, err := a.profile.Update(ctx, edit)
	if err != nil {
		a.fail(err)
		return
	}
	fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
}

func (a *app) doTasks(ctx context.Context) {
	tasks, err := a.tasks.List(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	a.printTasks(tasks)
}

func (a *app) doAddTask(ctx context.Context) {
	draft := domain.TaskDraft{
		Title:       a.prompt("title: "),
		Description: a.prompt("description (optional): "),
		Priority:    a.prompt("priority [low/medium/high]: "),
		DueDate:     a.prompt("due date YYYY-MM-DD (optional): "),
	}
	tasks, err := a.tasks.Create(ctx, draft)
	if err != nil {
		a.fail(err)
		return
	}
	a.printTasks(tasks)
}

func (a *app) doToggle(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("usage: toggle <id>")
		return
	}
	var target *domain.Task
	for _, t := range a.tasks.Snapshot() {
		if t.ID == id {
			copied := t
			target = &copied
			break
		}
	}
	if target == nil {
		fmt.Println("Unknown task id; run 'tasks' first.")
		return
	}
	tasks, err := a.tasks.ToggleCompleted(ctx, *target)
	if err != nil {
		a.fail(err)
		return
	}
	a.printTasks(tasks)
}

func (a *app) doDelete(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("usage: rm <id>")
		return
	}
	tasks, err := a.tasks.Delete(ctx, id)
	if err != nil {
		a.fail(err)
		return
	}
	a.printTasks(tasks)
}

func (a *app) printTasks(tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] #%d %s (%s)", mark, t.ID, t.Title, t.Priority)
		if t.DueDate != "" {
			line += " due " + t.DueDate
		}
		fmt.Println(line)
	}
}

func (a *app) fail(err error) {
	if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		fmt.Println("Session expired — please log in again.")
		return
	}
	fmt.Printf("Error: %v\n", err)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (a *app) promptDefault(label, current string) string {
	val := a.prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if val == "" {
		return current
	}
	return val
}

func (a *app) promptSecret(label string) string {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		// not a terminal (piped input); fall back to a plain line read
		return a.prompt("")
	}
	return string(raw)
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
