package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/admin"
	"github.com/viant/learnsphere/internal/pointer"
	"github.com/viant/learnsphere/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	service  *admin.Service
	gate     *session.Gate
	secret   string
	gatherer prometheus.Gatherer
	logger   learnsphere.Logger
	in       io.Reader
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login [-email EMAIL]                 - log in, the password is prompted")
	fmt.Fprintln(cli.out, "  whoami                               - show the current user")
	fmt.Fprintln(cli.out, "  courses [-search TEXT]               - list courses")
	fmt.Fprintln(cli.out, "  course -id ID                        - show a course with lessons")
	fmt.Fprintln(cli.out, "  publish -id ID | unpublish -id ID    - toggle course publication")
	fmt.Fprintln(cli.out, "  edit -id ID [-title T] [-description D] - edit course fields")
	fmt.Fprintln(cli.out, "  requests [-status STATUS]            - list course requests")
	fmt.Fprintln(cli.out, "  approve -id ID                       - approve a course request")
	fmt.Fprintln(cli.out, "  reject -id ID -reason REASON         - reject a course request")
	fmt.Fprintln(cli.out, "  stats                                - course request counters")
	fmt.Fprintln(cli.out, "  applicants                           - list instructor requests")
	fmt.Fprintln(cli.out, "  approve-instructor -id ID            - approve an instructor request")
	fmt.Fprintln(cli.out, "  reject-instructor -id ID             - reject an instructor request")
	fmt.Fprintln(cli.out, "  upload -file URL                     - upload a local or remote file")
	fmt.Fprintln(cli.out, "  health                               - check the backend")
	fmt.Fprintln(cli.out, "  logout                               - end the session")
	fmt.Fprintln(cli.out, "Every command accepts -metrics to print client metrics when it completes.")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	command, rest := args[1], args[2:]
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(cli.out)
	email := flags.String("email", "", "login email, the password is prompted next")
	id := flags.String("id", "", "resource id")
	search := flags.String("search", "", "course title filter")
	status := flags.String("status", "", "course request status: PENDING, APPROVED or REJECTED")
	reason := flags.String("reason", "", "rejection reason")
	title := flags.String("title", "", "course title")
	description := flags.String("description", "", "course description")
	file := flags.String("file", "", "file URL, e.g. /tmp/cover.png or s3://bucket/cover.png")
	showMetrics := flags.Bool("metrics", false, "print client metrics when the command completes")
	if err := flags.Parse(rest); err != nil {
		return errHelp
	}
	if *showMetrics {
		defer func() {
			if err := cli.printMetrics(); err != nil {
				cli.logger.Errorf("failed to gather metrics: %v", err)
			}
		}()
	}

	switch command {
	case "health":
		if err := cli.service.Health(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "ok")
		return nil
	case "login":
		user, err := cli.login(ctx, *email)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "logged in as %v (%v)\n", user.Email, user.Role)
		return nil
	}

	if err := cli.authenticate(ctx, *email); err != nil {
		return err
	}
	switch command {
	case "whoami":
		return cli.whoami(ctx)
	case "courses":
		return cli.courses(ctx, *search)
	case "course":
		if *id == "" {
			flags.Usage()
			return errHelp
		}
		return cli.course(ctx, *id)
	case "publish", "unpublish":
		if *id == "" {
			flags.Usage()
			return errHelp
		}
		course, err := cli.service.TogglePublish(ctx, *id, command == "publish")
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%v published=%v\n", course.ID, course.Published)
		return nil
	case "edit":
		input := &learnsphere.CourseInput{Title: pointer.NonZero(*title), Description: pointer.NonZero(*description)}
		if *id == "" || (input.Title == nil && input.Description == nil) {
			flags.Usage()
			return errHelp
		}
		course, err := cli.service.UpdateCourse(ctx, *id, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%v %q: %v\n", course.ID, course.Title, course.Description)
		return nil
	case "requests":
		return cli.requests(ctx, *status)
	case "approve":
		if *id == "" {
			flags.Usage()
			return errHelp
		}
		request, err := cli.service.ApproveCourseRequest(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%v %v\n", request.ID, request.Status)
		return nil
	case "reject":
		if *id == "" || *reason == "" {
			flags.Usage()
			return errHelp
		}
		request, err := cli.service.RejectCourseRequest(ctx, *id, *reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%v %v\n", request.ID, request.Status)
		return nil
	case "stats":
		stats, err := cli.service.CourseRequestStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pending=%v approved=%v rejected=%v total=%v\n", stats.Pending, stats.Approved, stats.Rejected, stats.Total)
		return nil
	case "applicants":
		return cli.applicants(ctx)
	case "approve-instructor", "reject-instructor":
		if *id == "" {
			flags.Usage()
			return errHelp
		}
		decide := cli.service.ApproveInstructor
		if command == "reject-instructor" {
			decide = cli.service.RejectInstructor
		}
		message, err := decide(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, message.Message)
		return nil
	case "upload":
		if *file == "" {
			flags.Usage()
			return errHelp
		}
		meta, err := cli.service.UploadURL(ctx, *file, func(percent int) {
			fmt.Fprintf(cli.out, "\r%3d%%", percent)
		})
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "uploaded %v as %v\n", meta.Filename, meta.ID)
		return nil
	case "logout":
		cli.gate.Logout(ctx)
		fmt.Fprintln(cli.out, "logged out")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

// authenticate restores a session or logs in with the configured secret or a prompt
func (cli *commandLine) authenticate(ctx context.Context, email string) error {
	store := cli.service.Store()
	if store.Token() == "" && email == "" {
		restored, err := store.Restore(ctx)
		if err != nil {
			cli.logger.Infof("failed to restore session hint: %v", err)
		}
		if restored {
			// bootstrap renews the credential from the refresh cookie when one is held
			cli.gate.Render(ctx)
		}
	}
	if store.Token() == "" {
		if _, err := cli.login(ctx, email); err != nil {
			return err
		}
	}
	decision := cli.gate.Render(ctx)
	switch decision.Action {
	case session.ActionRender:
		return decision.Err
	case session.ActionRedirect:
		if decision.Err != nil {
			return decision.Err
		}
		return learnsphere.ErrSessionExpired
	}
	return fmt.Errorf("session is still loading")
}

func (cli *commandLine) login(ctx context.Context, email string) (*learnsphere.User, error) {
	if cli.secret != "" && email == "" {
		return cli.service.LoginWithSecret(ctx, cli.secret)
	}
	if email == "" {
		fmt.Fprint(cli.out, "Enter email:")
		line, err := bufio.NewReader(cli.input()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		email = strings.TrimSpace(line)
	}
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return nil, err
	}
	if email == "" || len(pwd) == 0 {
		return nil, errHelp
	}
	return cli.service.Login(ctx, email, string(pwd))
}

func (cli *commandLine) input() io.Reader {
	if cli.in != nil {
		return cli.in
	}
	return os.Stdin
}

func (cli *commandLine) whoami(ctx context.Context) error {
	user, err := cli.service.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%v <%v> %v\n", user.Name, user.Email, user.Role)
	return nil
}

func (cli *commandLine) courses(ctx context.Context, search string) error {
	params := url.Values{}
	params.Set("search", search)
	page, err := cli.service.Courses(ctx, params)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tLESSONS\tPUBLISHED")
	for _, course := range page.Data {
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\n", course.ID, course.Title, course.LessonsCount, course.Published)
	}
	return writer.Flush()
}

func (cli *commandLine) course(ctx context.Context, id string) error {
	course, err := cli.service.Course(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%v (%v) published=%v\n", course.Title, course.ID, course.Published)
	for _, lesson := range course.Lessons {
		fmt.Fprintf(cli.out, "  %d. %v [%v, %ds]\n", lesson.SortOrder, lesson.Title, lesson.Type, lesson.DurationSec)
	}
	for _, quiz := range course.Quizzes {
		fmt.Fprintf(cli.out, "  quiz: %v (%d questions)\n", quiz.Title, len(quiz.Questions))
	}
	return nil
}

func (cli *commandLine) requests(ctx context.Context, status string) error {
	params := url.Values{}
	params.Set("status", strings.ToUpper(status))
	requests, err := cli.service.CourseRequests(ctx, params)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCOURSE\tINSTRUCTOR\tSTATUS")
	for _, request := range requests {
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\n", request.ID, request.Course.Title, request.Instructor.Email, request.Status)
	}
	return writer.Flush()
}

func (cli *commandLine) applicants(ctx context.Context) error {
	requests, err := cli.service.InstructorRequests(ctx)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tEMAIL\tSTATUS")
	for _, request := range requests {
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\n", request.ID, request.Name, request.Email, request.Status)
	}
	return writer.Flush()
}

// printMetrics writes every gathered sample as name{labels} value
func (cli *commandLine) printMetrics() error {
	families, err := cli.gatherer.Gather()
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var pairs []string
			for _, label := range metric.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%v=%q", label.GetName(), label.GetValue()))
			}
			name := family.GetName()
			if len(pairs) > 0 {
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case metric.Counter != nil:
				fmt.Fprintf(writer, "%v\t%v\n", name, metric.GetCounter().GetValue())
			case metric.Gauge != nil:
				fmt.Fprintf(writer, "%v\t%v\n", name, metric.GetGauge().GetValue())
			case metric.Histogram != nil:
				histogram := metric.GetHistogram()
				fmt.Fprintf(writer, "%v\tcount=%v sum=%.3fs\n", name, histogram.GetSampleCount(), histogram.GetSampleSum())
			}
		}
	}
	return writer.Flush()
}
