package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sql.DB
	auth   service.AuthService
	stats  service.StatsService
	out    io.Writer
	logger *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -username NAME -name DISPLAY [-role admin|teacher]  创建教师账号（随后输入密码）")
	fmt.Fprintln(cli.out, "  report [-branch CSE -semester 6 -exam IA1 [-batch B1]]        打印统计或成绩表")
	fmt.Fprintln(cli.out, "  migrate up|down [STEPS]                                      执行或回滚数据库迁移")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserName := addUserCmd.String("username", "", "登录用户名")
	addUserDisplay := addUserCmd.String("name", "", "显示名称")
	addUserRole := addUserCmd.String("role", "teacher", "角色：admin 或 teacher")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportBranch := reportCmd.String("branch", "", "专业（与 -semester -exam 一起使用时打印成绩表）")
	reportSemester := reportCmd.Int("semester", 0, "学期 1-8")
	reportExam := reportCmd.String("exam", "", "考试类型 IA1/IA2/Semester")
	reportBatch := reportCmd.String("batch", "", "批次（可选）")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserDisplay == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(&dto.CreateUserRequest{
			Username: *addUserName,
			Name:     *addUserDisplay,
			Password: string(pwd),
			Role:     *addUserRole,
		})

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportBranch == "" && *reportExam == "" && *reportSemester == 0 {
			return cli.printSummary()
		}
		if *reportBranch == "" || *reportExam == "" || *reportSemester == 0 {
			reportCmd.Usage()
			return errHelp
		}
		return cli.printResults(&dto.ResultsRequest{
			Branch:   *reportBranch,
			Semester: *reportSemester,
			Batch:    *reportBatch,
			ExamType: *reportExam,
		})

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		steps := 1
		if len(args) > 3 {
			n, err := strconv.Atoi(args[3])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive number (got '%s')", args[3])
			}
			steps = n
		}
		return cli.migrate(args[2], steps)

	default:
		cli.printUsage()
		return errHelp
	}
}
