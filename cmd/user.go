package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/nsxzhou1114/author-blog/internal/logger"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/service"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"
)

// userCmd 用户管理命令
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "用户管理命令",
	Long:  `用户管理相关的命令，包括创建超级用户、创建作者和列出用户`,
}

// createSuperuserCmd 创建超级用户命令
var createSuperuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "创建超级用户",
	Long:  `交互式创建超级用户（同时具备 staff 与 author 标志）`,
	Run: func(cmd *cobra.Command, args []string) {
		createUser(true)
	},
}

// createAuthorCmd 创建作者用户命令
var createAuthorCmd = &cobra.Command{
	Use:   "create-author",
	Short: "创建作者用户",
	Long:  `交互式创建作者用户`,
	Run: func(cmd *cobra.Command, args []string) {
		createUser(false)
	},
}

// listUsersCmd 列出用户命令
var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "列出用户",
	Run: func(cmd *cobra.Command, args []string) {
		listUsers()
	},
}

func init() {
	userCmd.AddCommand(createSuperuserCmd)
	userCmd.AddCommand(createAuthorCmd)
	userCmd.AddCommand(listUsersCmd)

	rootCmd.AddCommand(userCmd)
}

// readPassword 读取两次密码并确认一致
func readPassword() (string, error) {
	fmt.Print("请输入密码: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}

	fmt.Print("请确认密码: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取确认密码失败: %w", err)
	}

	if string(passwordBytes) != string(confirmBytes) {
		return "", fmt.Errorf("两次输入的密码不一致")
	}
	return string(passwordBytes), nil
}

// createUser 交互式创建超级用户或作者
func createUser(superuser bool) {
	db, err := initializeSystem()
	if err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("请输入邮箱: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	name := ""
	if !superuser {
		fmt.Print("请输入名称: ")
		name, _ = reader.ReadString('\n')
		name = strings.TrimSpace(name)
	}

	password, err := readPassword()
	if err != nil {
		fmt.Println(err)
		return
	}

	cfg := config.GlobalConfig
	if len([]rune(password)) < cfg.Auth.PasswordMinLength {
		fmt.Printf("密码长度不能少于%d位\n", cfg.Auth.PasswordMinLength)
		return
	}

	users := service.NewUserService(db, logger.GetSugaredLogger(), auth.NewTokenManager(cfg.JWT, nil), cfg.Auth.PasswordMinLength)
	ctx := context.Background()

	var user *model.User
	if superuser {
		user, err = users.CreateSuperuser(ctx, email, password)
	} else {
		user, err = users.CreateAuthorUser(ctx, email, password, name)
	}
	if err != nil {
		fmt.Printf("创建用户失败: %v\n", err)
		return
	}

	fmt.Printf("用户创建成功！\n")
	fmt.Printf("ID: %d\n", user.ID)
	fmt.Printf("邮箱: %s\n", user.Email)
	fmt.Printf("角色: %s\n", policy.ResolveRole(user))
}

// listUsers 列出最近的用户
func listUsers() {
	db, err := initializeSystem()
	if err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	if err := printUsers(db, 50); err != nil {
		fmt.Printf("查询用户列表失败: %v\n", err)
	}
}

func printUsers(db *gorm.DB, limit int) error {
	var users []model.User
	if err := db.Order("id DESC").Limit(limit).Find(&users).Error; err != nil {
		return err
	}

	fmt.Printf("%-5s %-30s %-20s %-10s %-20s\n", "ID", "邮箱", "名称", "角色", "创建时间")
	fmt.Println(strings.Repeat("-", 90))
	for i := range users {
		u := &users[i]
		fmt.Printf("%-5d %-30s %-20s %-10s %-20s\n",
			u.ID, u.Email, u.Name, policy.ResolveRole(u), u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
