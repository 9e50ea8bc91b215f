// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

//go:build integration

package api_test

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/admin"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	authpg "github.com/pixelhaven/pixelhaven/internal/auth/postgres"
	"github.com/pixelhaven/pixelhaven/internal/friends"
	friendspg "github.com/pixelhaven/pixelhaven/internal/friends/postgres"
	"github.com/pixelhaven/pixelhaven/internal/group"
	grouppg "github.com/pixelhaven/pixelhaven/internal/group/postgres"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	identitypg "github.com/pixelhaven/pixelhaven/internal/identity/postgres"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	inventorypg "github.com/pixelhaven/pixelhaven/internal/inventory/postgres"
)

const testPassword = "integration-pw"

var _ = Describe("Platform flows", func() {
	var (
		ctx context.Context

		users    *identitypg.UserRepository
		staff    *identitypg.StaffRepository
		hasher   *auth.Argon2idHasher
		authSvc  *auth.Service
		groupSvc *group.Service
		invSvc   *inventory.Service
		frSvc    *friends.Service
		adminSvc *admin.Service
	)

	newUser := func(username string) *identity.User {
		hash, err := hasher.Hash(testPassword)
		Expect(err).NotTo(HaveOccurred())

		now := time.Now()
		user := &identity.User{
			ID:           ulid.Make(),
			Username:     username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		Expect(users.Create(ctx, user)).To(Succeed())
		return user
	}

	makeStaff := func(user *identity.User, caps ...access.Capability) identity.Actor {
		now := time.Now()
		rec := &identity.StaffRecord{
			UserID:    user.ID,
			Caps:      access.NewSet(caps...),
			CreatedAt: now,
			UpdatedAt: now,
		}
		Expect(staff.Upsert(ctx, rec)).To(Succeed())
		return identity.NewActor(user, rec)
	}

	BeforeEach(func() {
		ctx = context.Background()
		resetDatabase(ctx, env.pool)

		users = identitypg.NewUserRepository(env.pool)
		staff = identitypg.NewStaffRepository(env.pool)
		hasher = auth.NewArgon2idHasher()
		authSvc = auth.NewService(users, staff, authpg.NewSessionRepository(env.pool), hasher)
		groupSvc = group.NewService(grouppg.NewRepository(env.pool))
		invSvc = inventory.NewService(inventorypg.NewRepository(env.pool), users)
		frSvc = friends.NewService(friendspg.NewRepository(env.pool), users)
		adminSvc = admin.NewService(users, staff, invSvc, hasher)
	})

	Describe("Accounts and sessions", func() {
		It("logs in and resolves the token back to the user", func() {
			user := newUser("alice")

			_, token, err := authSvc.Login(ctx, "alice", testPassword, "127.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			actor, err := authSvc.ResolveActor(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.UserID).To(Equal(user.ID))
			Expect(actor.IsAnonymous()).To(BeFalse())
		})

		It("refuses banned accounts at login", func() {
			user := newUser("banned")
			Expect(users.SetBanned(ctx, user.ID, true)).To(Succeed())

			_, _, err := authSvc.Login(ctx, "banned", testPassword, "127.0.0.1")
			Expect(err).To(HaveOccurred())
		})

		It("resolves logged-out tokens to anonymous", func() {
			newUser("carol")
			_, token, err := authSvc.Login(ctx, "carol", testPassword, "127.0.0.1")
			Expect(err).NotTo(HaveOccurred())

			Expect(authSvc.Logout(ctx, token)).To(Succeed())

			actor, err := authSvc.ResolveActor(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.IsAnonymous()).To(BeTrue())
		})
	})

	Describe("Group walls", func() {
		var (
			owner *identity.User
			g     *group.Group
			repo  *grouppg.Repository
		)

		BeforeEach(func() {
			owner = newUser("owner")
			repo = grouppg.NewRepository(env.pool)

			g = &group.Group{
				ID:        ulid.Make(),
				Name:      "Builders",
				OwnerID:   owner.ID,
				CreatedAt: time.Now(),
			}
			_, err := env.pool.Exec(ctx,
				"INSERT INTO groups (id, name, description, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)",
				g.ID.String(), g.Name, g.Description, g.OwnerID.String(), g.CreatedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.AddMember(ctx, &group.Membership{
				GroupID: g.ID, UserID: owner.ID, JoinedAt: time.Now(),
			})).To(Succeed())
		})

		It("stores posts and lists pinned posts first", func() {
			first, err := groupSvc.PostToWall(ctx, owner.ID, g.ID, "first post")
			Expect(err).NotTo(HaveOccurred())
			_, err = groupSvc.PostToWall(ctx, owner.ID, g.ID, "second post")
			Expect(err).NotTo(HaveOccurred())

			Expect(groupSvc.SetWallPostPinned(ctx, first.ID, true)).To(Succeed())

			page, err := groupSvc.Wall(ctx, g.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(2))
			Expect(page.Items[0].Body).To(Equal("first post"))
			Expect(page.Items[0].Pinned).To(BeTrue())
			Expect(page.Items[0].AuthorUsername).To(Equal("owner"))
		})

		It("refuses posts from non-members", func() {
			stranger := newUser("stranger")

			_, err := groupSvc.PostToWall(ctx, stranger.ID, g.ID, "let me in")
			Expect(err).To(MatchError(group.ErrNotMember))
		})
	})

	Describe("Inventories", func() {
		It("hides private inventories from other viewers but not the owner", func() {
			owner := newUser("collector")
			viewer := newUser("viewer")

			item, err := invSvc.CreateItem(ctx, inventory.ItemHat, "Top Hat", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(invSvc.Grant(ctx, owner.ID, item.ID)).To(Succeed())

			_, err = env.pool.Exec(ctx,
				"UPDATE user_settings SET public_inventory = FALSE WHERE user_id = $1",
				owner.ID.String())
			Expect(err).NotTo(HaveOccurred())

			_, err = invSvc.UserInventory(ctx, &viewer.ID, owner.ID, inventory.ItemHat, 1)
			Expect(err).To(MatchError(inventory.ErrPrivate))

			page, err := invSvc.UserInventory(ctx, &owner.ID, owner.ID, inventory.ItemHat, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Name).To(Equal("Top Hat"))
		})

		It("hides non-public items even in public inventories", func() {
			owner := newUser("collector")

			item, err := invSvc.CreateItem(ctx, inventory.ItemGadget, "Prototype", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(invSvc.Grant(ctx, owner.ID, item.ID)).To(Succeed())

			page, err := invSvc.UserInventory(ctx, nil, owner.ID, inventory.ItemGadget, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
		})
	})

	Describe("Friend requests", func() {
		It("accepting a request creates the friendship and removes the request", func() {
			sender := newUser("sender")
			recipient := newUser("recipient")

			req, err := frSvc.Send(ctx, sender.ID, recipient.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(frSvc.Respond(ctx, recipient.ID, req.ID, friends.ActionAccept)).To(Succeed())

			repo := friendspg.NewRepository(env.pool)
			are, err := repo.AreFriends(ctx, sender.ID, recipient.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(are).To(BeTrue())

			_, err = repo.GetRequest(ctx, req.ID)
			Expect(err).To(MatchError(friends.ErrNotFound))
		})

		It("refuses duplicate pending requests", func() {
			sender := newUser("sender")
			recipient := newUser("recipient")

			_, err := frSvc.Send(ctx, sender.ID, recipient.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = frSvc.Send(ctx, sender.ID, recipient.ID)
			Expect(err).To(MatchError(friends.ErrRequestPending))
		})
	})

	Describe("Staff capabilities", func() {
		It("round-trips capability sets through storage", func() {
			user := newUser("moderator")
			makeStaff(user, access.CapBanUsers, access.CapViewUserInfo)

			rec, err := staff.Get(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Caps.Has(access.CapBanUsers)).To(BeTrue())
			Expect(rec.Caps.Has(access.CapManageStaff)).To(BeFalse())
		})

		It("banning through the admin service flips the flag", func() {
			target := newUser("target")
			mod := newUser("mod")
			actor := makeStaff(mod, access.CapBanUsers)

			Expect(adminSvc.Ban(ctx, actor, target.ID)).To(Succeed())

			got, err := users.GetByID(ctx, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Banned).To(BeTrue())

			Expect(adminSvc.Ban(ctx, actor, mod.ID)).To(MatchError(admin.ErrSelfTarget))
		})
	})
})
