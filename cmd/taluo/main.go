package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Heipiao/taluo/internal/api"
	"github.com/Heipiao/taluo/internal/cli"
	"github.com/Heipiao/taluo/internal/config"
	"github.com/Heipiao/taluo/internal/model/deity"
	authservice "github.com/Heipiao/taluo/internal/service/auth"
	chatservice "github.com/Heipiao/taluo/internal/service/chat"
	themeservice "github.com/Heipiao/taluo/internal/service/theme"
	"github.com/Heipiao/taluo/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	fortuneID := flag.String("fortune", "", "求签类别 (1 每日运势, 2 事业运, 3 感情运, 4 财运)")
	deityIndex := flag.Int("deity", 0, "初始神明 (0 观音, 1 月老, 2 财神)")
	flag.Parse()

	ctx := context.Background()

	client := api.NewClient(cfg.Client.APIBaseURL, cfg.Client.HTTPTimeout)
	creds := store.NewFileStore(cfg.Client.CredentialsFile)
	session := authservice.NewManager(client, creds)

	session.RestoreSession(ctx)
	if !session.Session().Authenticated {
		// 未登录则先走登录流程，与应用内的导航守卫一致。
		if err := runLogin(ctx, session); err != nil {
			log.Fatalf("登录失败: %v", err)
		}
	}

	if err := session.RefreshCoinBalance(ctx); err != nil {
		log.Printf("warning: failed to refresh balance: %v", err)
	}

	binder := themeservice.NewBinder(deity.NewMemoryStore(deity.Seed()))
	binder.SelectDeity(*deityIndex)

	orchestrator := chatservice.NewOrchestrator(client, session, binder)
	runChat(ctx, session, binder, orchestrator, *fortuneID)
}

// runLogin prompts for one of the two login flows until a session is
// established or input ends.
func runLogin(ctx context.Context, session *authservice.Manager) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		method, ok := prompt(scanner, "登录方式 [1 邮箱 / 2 手机 / 3 注册]: ")
		if !ok {
			return errors.New("input closed")
		}
		switch method {
		case "1":
			email, _ := prompt(scanner, "邮箱: ")
			password, _ := prompt(scanner, "密码: ")
			if err := session.Login(ctx, email, password); err != nil {
				fmt.Println("登录失败:", err)
				continue
			}
		case "2":
			phone, _ := prompt(scanner, "手机号: ")
			if err := session.SendSMSCode(ctx, phone); err != nil {
				fmt.Println("验证码发送失败:", err)
				continue
			}
			code, _ := prompt(scanner, "验证码: ")
			if err := session.PhoneLogin(ctx, phone, code); err != nil {
				fmt.Println("登录失败:", err)
				continue
			}
		case "3":
			username, _ := prompt(scanner, "用户名: ")
			email, _ := prompt(scanner, "邮箱: ")
			password, _ := prompt(scanner, "密码: ")
			created, err := session.Signup(ctx, username, email, password)
			if err != nil {
				fmt.Println("注册失败:", err)
				continue
			}
			fmt.Printf("Welcome, %s! 请使用邮箱登录。\n", created)
			continue
		default:
			continue
		}

		if current := session.Session(); current.Authenticated {
			fmt.Printf("Welcome, %s\n", current.User.Username)
			return nil
		}
	}
}

// runChat is the fortune-telling screen loop.
func runChat(ctx context.Context, session *authservice.Manager, binder *themeservice.Binder, orchestrator *chatservice.Orchestrator, fortuneID string) {
	renderer := cli.NewRenderer(binder.Theme())
	fmt.Println(renderer.Header(binder.CurrentDeity()))
	fmt.Println()

	if fortuneID != "" {
		fmt.Println(renderer.Typing(binder.CurrentDeity().Name))
		if err := orchestrator.StartFortuneSession(ctx, fortuneID); err != nil {
			log.Fatalf("求签失败: %v", err)
		}
		printLatest(renderer, orchestrator, 2)
	}

	fmt.Println("输入消息开始对话，/help 查看命令。")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		line, ok := prompt(scanner, "> ")
		if !ok {
			return
		}

		switch {
		case line == "/exit":
			return
		case line == "/help":
			fmt.Println("/deity <0-2> 切换神明  /fortune <id> 求签  /balance 查询灵币  /invite 邀请码  /use <code> 使用邀请码  /logout 退出登录  /exit 退出")
		case strings.HasPrefix(line, "/deity "):
			index, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/deity ")))
			if err != nil {
				fmt.Println("无效的序号")
				continue
			}
			binder.SelectDeity(index)
			orchestrator.ResetTranscript()
			renderer = cli.NewRenderer(binder.Theme())
			fmt.Println(renderer.Header(binder.CurrentDeity()))
		case strings.HasPrefix(line, "/fortune "):
			fmt.Println(renderer.Typing(binder.CurrentDeity().Name))
			if err := orchestrator.StartFortuneSession(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/fortune "))); err != nil {
				fmt.Println("求签失败:", err)
				continue
			}
			printLatest(renderer, orchestrator, 2)
		case line == "/balance":
			if err := session.RefreshCoinBalance(ctx); err != nil {
				fmt.Println("查询失败:", err)
				continue
			}
			fmt.Printf("灵币余额: %d\n", session.Session().User.CoinBalance)
		case line == "/invite":
			code, err := session.InviteInfo(ctx)
			if err != nil {
				fmt.Println("查询失败:", err)
				continue
			}
			fmt.Println("邀请码:", code)
		case strings.HasPrefix(line, "/use "):
			if err := session.UseInviteCode(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/use "))); err != nil {
				fmt.Println("使用失败:", err)
				continue
			}
			fmt.Println("邀请码已使用")
		case line == "/logout":
			session.Logout(ctx)
			fmt.Println("已退出登录")
			return
		case line != "":
			fmt.Println(renderer.Typing(binder.CurrentDeity().Name))
			if err := orchestrator.SendMessage(ctx, line); err != nil {
				fmt.Println("发送失败:", err)
				continue
			}
			printLatest(renderer, orchestrator, 1)
		}
	}
}

// printLatest prints the newest n messages oldest-first.
func printLatest(renderer *cli.Renderer, orchestrator *chatservice.Orchestrator, n int) {
	messages := orchestrator.Messages()
	if len(messages) < n {
		n = len(messages)
	}
	for i := n - 1; i >= 0; i-- {
		fmt.Println(renderer.Message(messages[i]))
	}
}

func prompt(scanner *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
