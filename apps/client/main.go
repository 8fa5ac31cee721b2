package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tractor-lite/apps/client/internal/api"
	"tractor-lite/apps/client/internal/auth"
	"tractor-lite/apps/client/internal/session"
	"tractor-lite/card"
	"tractor-lite/tractor"
)

func main() {
	var (
		doLogin    = flag.Bool("login", false, "用账号密码登录并保存凭证")
		doRegister = flag.Bool("register", false, "注册新账号并保存凭证")
		doLogout   = flag.Bool("logout", false, "登出并清除本地凭证")
		username   = flag.String("user", "", "用户名")
		password   = flag.String("pass", "", "密码")
		createName = flag.String("create", "", "创建一张新牌桌（参数为桌名）")
		single     = flag.Bool("single", false, "创建单人桌（其余座位为 AI，首次 waiting 快照自动开局）")
		joinTable  = flag.Bool("join", false, "入座 -game 指定的牌桌")
		gameID     = flag.String("game", "", "牌桌 ID")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := auth.OpenStoreFromEnv()
	if err != nil {
		logger.Fatal("open credential store", zap.Error(err))
	}
	defer store.Close()

	client, err := api.New(api.Config{
		BaseURL:     api.BaseURLFromEnv(),
		Credentials: store,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("init api client", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *doLogout {
		if err := client.Logout(ctx); err != nil {
			logger.Warn("server logout failed, clearing local credential anyway", zap.Error(err))
		}
		if err := store.Clear(); err != nil {
			logger.Fatal("clear credential", zap.Error(err))
		}
		fmt.Println("logged out")
		return
	}

	if *doLogin || *doRegister {
		if *username == "" || *password == "" {
			logger.Fatal("login/register requires -user and -pass")
		}
		call := client.Login
		if *doRegister {
			call = client.Register
		}
		token, user, err := call(ctx, *username, *password)
		if err != nil {
			logger.Fatal("auth failed", zap.Error(err))
		}
		cred := auth.Credential{Token: token, UserID: user.ID, Username: user.Username, SavedAt: time.Now()}
		if err := store.Save(cred); err != nil {
			logger.Fatal("save credential", zap.Error(err))
		}
		fmt.Printf("welcome, %s (%d wins / %d losses)\n", user.Username, user.Wins, user.Losses)
		if *createName == "" && !*single && *gameID == "" {
			return
		}
	}

	id := *gameID
	switch {
	case *single:
		id, err = client.CreateSingleGame(ctx)
		if err != nil {
			logger.Fatal("create single game", zap.Error(err))
		}
		fmt.Printf("single table created: %s\n", id)
	case *createName != "":
		id, err = client.CreateGame(ctx, *createName)
		if err != nil {
			logger.Fatal("create game", zap.Error(err))
		}
		fmt.Printf("table created: %s\n", id)
	}
	if id == "" {
		fmt.Fprintln(os.Stderr, "no table: pass -game <id>, -create <name> or -single")
		os.Exit(2)
	}

	sess := session.New(client, id, session.Config{
		SinglePlayer: *single,
		PollInterval: session.PollIntervalFromEnv(),
		Logger:       logger,
	})
	sess.Start(ctx)
	defer sess.Close()

	if *joinTable {
		if err := sess.Join(ctx); err != nil {
			logger.Fatal("join table", zap.Error(err))
		}
	}

	fmt.Printf("at table %s, commands: show t <i> all clear start join call <suit> flip discard friend <suit> <value> <n> play ai open close refresh quit\n", id)
	repl(ctx, sess)
}

// repl 一行一条命令。动作的结果不在这里等待，下一次 show 看轮询回来的快照。
func repl(ctx context.Context, sess *session.Session) {
	in := bufio.NewScanner(os.Stdin)
	for {
		if sess.Terminated() {
			fmt.Println("session expired, log in again with -login")
			return
		}
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		var err error
		switch cmd {
		case "quit", "q", "exit":
			return
		case "show", "s":
			render(sess)
		case "refresh", "r":
			sess.Refresh()
		case "t", "toggle":
			if len(args) != 1 {
				fmt.Println("usage: t <hand index>")
				continue
			}
			idx, convErr := strconv.Atoi(args[0])
			if convErr != nil || !sess.ToggleCard(idx) {
				fmt.Println("index out of range")
			}
		case "all":
			sess.SelectAll()
		case "clear":
			sess.ClearSelection()
		case "open":
			sess.ReopenDialog()
		case "close":
			sess.DismissDialog()
		case "start":
			err = sess.StartMatch(ctx)
		case "join":
			err = sess.Join(ctx)
		case "play":
			err = sess.PlayCards(ctx)
		case "ai":
			err = sess.AIPlay(ctx)
		case "flip":
			err = sess.FlipBottom(ctx)
		case "discard":
			err = sess.Discard(ctx)
		case "call":
			if len(args) != 1 {
				fmt.Println("usage: call <suit>")
				continue
			}
			suit, parseErr := card.ParseSuit(args[0])
			if parseErr != nil {
				fmt.Println(parseErr)
				continue
			}
			err = sess.CallDealer(ctx, suit)
		case "friend":
			if len(args) != 3 {
				fmt.Println("usage: friend <suit> <value> <nth>")
				continue
			}
			suit, parseErr := card.ParseSuit(args[0])
			if parseErr == nil {
				var value card.Value
				value, parseErr = card.ParseValue(args[1])
				if parseErr == nil {
					var nth int
					nth, parseErr = strconv.Atoi(args[2])
					if parseErr == nil {
						err = sess.CallFriend(ctx, suit, value, nth)
					}
				}
			}
			if parseErr != nil {
				fmt.Println(parseErr)
				continue
			}
		default:
			fmt.Printf("unknown command %q\n", cmd)
			continue
		}
		if err != nil {
			if errors.Is(err, session.ErrActionPending) {
				fmt.Println("still waiting on the previous action")
				continue
			}
			fmt.Println(err)
		}
	}
}

func render(sess *session.Session) {
	view, ok := sess.View()
	if !ok {
		if err := sess.LastSyncErr(); err != nil {
			fmt.Printf("no snapshot yet (%v)\n", err)
		} else {
			fmt.Println("no snapshot yet")
		}
		return
	}
	fmt.Printf("status=%s level=%s", view.Status, view.CurrentLevel)
	if view.TrumpSuit != nil {
		fmt.Printf(" trump=%s", *view.TrumpSuit)
	}
	if view.Status == tractor.StatusPlaying && view.CurrentSeat != tractor.InvalidSeat {
		fmt.Printf(" turn=seat%d", view.CurrentSeat)
	}
	fmt.Println()
	for _, p := range view.Players {
		tag := ""
		if p.IsAI {
			tag = " [AI]"
		}
		if p.IsFriend {
			tag += " [friend]"
		}
		if p.Seat == view.MySeat {
			tag += " [me]"
		}
		fmt.Printf("  seat %d: %-12s %2d cards%s\n", p.Seat, p.Username, p.CardCount, tag)
	}
	if len(view.CurrentTrick) > 0 {
		fmt.Println("  trick:")
		for _, pc := range view.CurrentTrick {
			fmt.Printf("    %s: %s\n", pc.PlayerID, renderCards(pc.Cards, nil))
		}
	}
	if len(view.Scores) > 0 {
		fmt.Printf("  scores: %v\n", view.Scores)
	}
	selected := map[int]bool{}
	for _, i := range sess.SelectionIndices() {
		selected[i] = true
	}
	fmt.Printf("  hand: %s\n", renderCards(view.MyHand, selected))
	if d := sess.Dialog(); d != tractor.DialogNone {
		fmt.Printf("  dialog: %s\n", d)
	}
	if err := sess.LastSyncErr(); err != nil {
		fmt.Printf("  (stale, last poll failed: %v)\n", err)
	}
}

func renderCards(cards card.CardList, selected map[int]bool) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteByte(' ')
		}
		if selected[i] {
			fmt.Fprintf(&b, "[%d:%s]", i, c)
		} else {
			fmt.Fprintf(&b, "%d:%s", i, c)
		}
	}
	return b.String()
}
