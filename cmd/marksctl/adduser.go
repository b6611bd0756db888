package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/model"
)

const minPasswordLen = 8

// addUser 创建教师账号，密码经 bcrypt 哈希后保存
func (cli *commandLine) addUser(req *dto.CreateUserRequest) error {
	if req.Role != model.RoleAdmin && req.Role != model.RoleTeacher {
		return fmt.Errorf("role must be %s or %s (got '%s')", model.RoleAdmin, model.RoleTeacher, req.Role)
	}
	if len(req.Password) < minPasswordLen {
		return fmt.Errorf("密码长度不能少于 %d 位", minPasswordLen)
	}
	user, err := cli.auth.CreateUser(context.Background(), req)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "已创建用户 %s（%s，角色 %s）\n", user.Username, user.Name, user.Role)
	return nil
}
