package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

var (
	errTeacherNotFound = domain.ErrInvalidArgument.WithDetails("teacher not found")
	errStudentNotFound = domain.ErrInvalidArgument.WithDetails("student not found")
	errGroupNotFound   = domain.ErrInvalidArgument.WithDetails("group not found")
)

func accountFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "fullname", Aliases: []string{"n"}, Usage: "Full name"},
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Login name"},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   passwordUsage(create),
		},
	}
}

func passwordUsage(create bool) string {
	if create {
		return "Initial password (prompted when omitted)"
	}
	return "New password (unchanged when omitted)"
}

// TeacherCommand returns the teacher subcommand group (admin only).
func TeacherCommand() *cli.Command {
	return &cli.Command{
		Name:  "teacher",
		Usage: "Manage teacher accounts (admin)",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List teachers",
				Action:  teacherList,
			},
			{
				Name:   "create",
				Usage:  "Create a teacher",
				Flags:  accountFlags(true),
				Action: teacherCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a teacher",
				ArgsUsage: "TEACHER_ID",
				Flags:     accountFlags(false),
				Action:    teacherUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a teacher",
				ArgsUsage: "TEACHER_ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    teacherDelete,
			},
		},
	}
}

func teacherList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	teachers, err := rt.API.ListTeachers(c.Context)
	if err != nil {
		return err
	}
	return printer(c).Print(teachers)
}

// createPassword returns --password or prompts for it.
func createPassword(c *cli.Context) (string, error) {
	if pw := c.String("password"); pw != "" {
		return pw, nil
	}
	pw, err := newPrompter(c).Secret("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func teacherCreate(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	password, err := createPassword(c)
	if err != nil {
		return err
	}

	in := domain.NewTeacherInput(c.String("fullname"), c.String("username"), password)
	teacher, err := rt.API.CreateTeacher(c.Context, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Teacher %s created.", teacher.Username)
	return p.Print(teacher)
}

func teacherUpdate(c *cli.Context) error {
	id, err := argID(c, "teacher ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	teachers, err := rt.API.ListTeachers(c.Context)
	if err != nil {
		return err
	}
	current, ok := findUser(teachers, id)
	if !ok {
		return errTeacherNotFound
	}

	in := domain.NewTeacherInput(
		stringOr(c, "fullname", current.Fullname),
		stringOr(c, "username", current.Username),
		c.String("password"),
	)
	teacher, err := rt.API.UpdateTeacher(c.Context, id, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Teacher %d updated.", id)
	return p.Print(teacher)
}

func teacherDelete(c *cli.Context) error {
	id, err := argID(c, "teacher ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	p := printer(c)
	if !confirm(c, fmt.Sprintf("Delete teacher %d?", id)) {
		p.Noticef("Cancelled.")
		return nil
	}
	if err := rt.API.DeleteTeacher(c.Context, id); err != nil {
		return err
	}
	p.Noticef("Teacher %d deleted.", id)
	return nil
}

// StudentCommand returns the student subcommand group (admin only).
func StudentCommand() *cli.Command {
	groupFlag := func() cli.Flag {
		return &cli.Int64Flag{Name: "group", Aliases: []string{"g"}, Usage: "Group ID"}
	}
	return &cli.Command{
		Name:  "student",
		Usage: "Manage student accounts (admin)",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List students",
				Flags:   []cli.Flag{groupFlag()},
				Action:  studentList,
			},
			{
				Name:   "create",
				Usage:  "Create a student",
				Flags:  append(accountFlags(true), groupFlag()),
				Action: studentCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a student",
				ArgsUsage: "STUDENT_ID",
				Flags:     append(accountFlags(false), groupFlag()),
				Action:    studentUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a student",
				ArgsUsage: "STUDENT_ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    studentDelete,
			},
		},
	}
}

func studentList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	students, err := rt.API.ListStudents(c.Context, optionalID(c, "group"))
	if err != nil {
		return err
	}
	return printer(c).Print(students)
}

func studentCreate(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	password, err := createPassword(c)
	if err != nil {
		return err
	}

	in := domain.NewStudentInput(c.String("fullname"), c.String("username"), password, optionalID(c, "group"))
	student, err := rt.API.CreateStudent(c.Context, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Student %s created.", student.Username)
	return p.Print(student)
}

func studentUpdate(c *cli.Context) error {
	id, err := argID(c, "student ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	students, err := rt.API.ListStudents(c.Context, nil)
	if err != nil {
		return err
	}
	current, ok := findUser(students, id)
	if !ok {
		return errStudentNotFound
	}

	groupID := current.GroupID
	if c.IsSet("group") {
		groupID = optionalID(c, "group")
	}
	in := domain.NewStudentInput(
		stringOr(c, "fullname", current.Fullname),
		stringOr(c, "username", current.Username),
		c.String("password"),
		groupID,
	)
	student, err := rt.API.UpdateStudent(c.Context, id, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Student %d updated.", id)
	return p.Print(student)
}

func studentDelete(c *cli.Context) error {
	id, err := argID(c, "student ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	p := printer(c)
	if !confirm(c, fmt.Sprintf("Delete student %d?", id)) {
		p.Noticef("Cancelled.")
		return nil
	}
	if err := rt.API.DeleteStudent(c.Context, id); err != nil {
		return err
	}
	p.Noticef("Student %d deleted.", id)
	return nil
}

// GroupCommand returns the group subcommand group (admin only).
func GroupCommand() *cli.Command {
	groupFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Group name"},
			&cli.Int64Flag{Name: "teacher", Aliases: []string{"t"}, Usage: "Teacher ID"},
		}
	}
	return &cli.Command{
		Name:  "group",
		Usage: "Manage student groups (admin)",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List groups",
				Action:  groupList,
			},
			{
				Name:   "create",
				Usage:  "Create a group",
				Flags:  groupFlags(),
				Action: groupCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a group",
				ArgsUsage: "GROUP_ID",
				Flags:     groupFlags(),
				Action:    groupUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a group",
				ArgsUsage: "GROUP_ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    groupDelete,
			},
		},
	}
}

func groupList(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	groups, err := rt.API.ListGroups(c.Context)
	if err != nil {
		return err
	}
	return printer(c).Print(groups)
}

func groupCreate(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	in := domain.GroupInput{Name: c.String("name"), TeacherID: c.Int64("teacher")}
	group, err := rt.API.CreateGroup(c.Context, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Group %s created.", group.Name)
	return p.Print(group)
}

func groupUpdate(c *cli.Context) error {
	id, err := argID(c, "group ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	groups, err := rt.API.ListGroups(c.Context)
	if err != nil {
		return err
	}
	var current *domain.Group
	for i := range groups {
		if groups[i].ID == id {
			current = &groups[i]
			break
		}
	}
	if current == nil {
		return errGroupNotFound
	}

	in := domain.GroupInput{Name: stringOr(c, "name", current.Name), TeacherID: current.TeacherID}
	if c.IsSet("teacher") {
		in.TeacherID = c.Int64("teacher")
	}
	group, err := rt.API.UpdateGroup(c.Context, id, in)
	if err != nil {
		return err
	}
	p := printer(c)
	p.Noticef("Group %d updated.", id)
	return p.Print(group)
}

func groupDelete(c *cli.Context) error {
	id, err := argID(c, "group ID")
	if err != nil {
		return err
	}
	rt, err := authenticated(c)
	if err != nil {
		return err
	}
	p := printer(c)
	if !confirm(c, fmt.Sprintf("Delete group %d?", id)) {
		p.Noticef("Cancelled.")
		return nil
	}
	if err := rt.API.DeleteGroup(c.Context, id); err != nil {
		return err
	}
	p.Noticef("Group %d deleted.", id)
	return nil
}

func findUser(users []domain.User, id int64) (domain.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}
