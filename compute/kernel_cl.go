//go:build opencl

package compute

// cellKernelSource mirrors Step. Tuning constants arrive as -D defines.
const cellKernelSource = `
typedef struct {
	int neighbors_count;
	int edge_distance;
	int altitude;
	int temperature;
	int population;
	int direction_x;
	int direction_y;
	int second_direction_x;
	int second_direction_y;
	int smell_human;
	int smell_zombie;
	uint status;
} Cell;

#define EMPTY 0u
#define HUMAN 1u
#define ZOMBIE 2u

__constant int2 OFFSETS[8] = {
	(int2)(-1, -1), (int2)(0, -1), (int2)(1, -1),
	(int2)(-1, 0), (int2)(1, 0),
	(int2)(-1, 1), (int2)(0, 1), (int2)(1, 1)
};

inline bool in_bounds(int x, int y, int w, int h) {
	return x >= 0 && y >= 0 && x < w && y < h;
}

inline bool can_move(__global const Cell* from, __global const Cell* to) {
	return abs(from->altitude - to->altitude) <= MAX_CLIMB;
}

int claimant(__global const Cell* src, int w, int h, int x, int y) {
	__global const Cell* target = &src[y * w + x];
	int best = -1;
	int best_pop = 0;
	for (int i = 0; i < 8; i++) {
		int nx = x + OFFSETS[i].x;
		int ny = y + OFFSETS[i].y;
		if (!in_bounds(nx, ny, w, h)) continue;
		__global const Cell* n = &src[ny * w + nx];
		if (n->status == EMPTY || n->population < MIGRATE_THRESHOLD) continue;
		if (nx + n->direction_x != x || ny + n->direction_y != y) continue;
		if (!can_move(n, target)) continue;
		if (n->population > best_pop) {
			best = ny * w + nx;
			best_pop = n->population;
		}
	}
	return best;
}

#define SCORE_FLEE 0
#define SCORE_SPREAD 1
#define SCORE_CHASE 2

inline int score(__global const Cell* c, int mode) {
	if (mode == SCORE_FLEE) return c->smell_zombie;
	if (mode == SCORE_SPREAD) return c->smell_human;
	return -c->smell_human;
}

void steer(__global const Cell* src, int w, int h, int x, int y, int mode, int2* d1, int2* d2) {
	__global const Cell* self = &src[y * w + x];
	int best = score(self, mode);
	int second = best;
	*d1 = (int2)(0, 0);
	*d2 = (int2)(0, 0);
	for (int i = 0; i < 8; i++) {
		int nx = x + OFFSETS[i].x;
		int ny = y + OFFSETS[i].y;
		if (!in_bounds(nx, ny, w, h)) continue;
		__global const Cell* n = &src[ny * w + nx];
		if (!can_move(self, n)) continue;
		int s = score(n, mode);
		if (s < best) {
			second = best;
			*d2 = *d1;
			best = s;
			*d1 = OFFSETS[i];
		} else if (s < second) {
			second = s;
			*d2 = OFFSETS[i];
		}
	}
}

inline Cell with_occupant(Cell c, uint status, int pop) {
	if (pop <= 0) {
		c.status = EMPTY;
		c.population = 0;
	} else {
		c.status = status;
		c.population = pop;
	}
	return c;
}

__kernel void outbreak_step(const int w, const int h, __global const Cell* src, __global Cell* dst) {
	int idx = get_global_id(0);
	if (idx >= w * h) return;
	int x = idx % w;
	int y = idx / w;
	Cell c = src[idx];
	Cell out = c;

	int max_human = 0, max_zombie = 0, humans_adj = 0, zombies_adj = 0;
	for (int i = 0; i < 8; i++) {
		int nx = x + OFFSETS[i].x;
		int ny = y + OFFSETS[i].y;
		if (!in_bounds(nx, ny, w, h)) continue;
		__global const Cell* n = &src[ny * w + nx];
		max_human = max(max_human, n->smell_human);
		max_zombie = max(max_zombie, n->smell_zombie);
		if (n->status == HUMAN) humans_adj += n->population;
		if (n->status == ZOMBIE) zombies_adj += n->population;
	}
	out.smell_human = max(0, max_human - SCENT_DECAY);
	out.smell_zombie = max(0, max_zombie - SCENT_DECAY);
	if (c.status == HUMAN) out.smell_human = max(out.smell_human, c.population);
	if (c.status == ZOMBIE) out.smell_zombie = max(out.smell_zombie, c.population);

	int2 d1 = (int2)(0, 0);
	int2 d2 = (int2)(0, 0);
	if (c.status == HUMAN && c.smell_zombie > 0) {
		steer(src, w, h, x, y, SCORE_FLEE, &d1, &d2);
	} else if (c.status == HUMAN && c.population >= CROWD_THRESHOLD) {
		steer(src, w, h, x, y, SCORE_SPREAD, &d1, &d2);
	} else if (c.status == ZOMBIE && c.smell_human > 0) {
		steer(src, w, h, x, y, SCORE_CHASE, &d1, &d2);
	}
	out.direction_x = d1.x;
	out.direction_y = d1.y;
	out.second_direction_x = d2.x;
	out.second_direction_y = d2.y;

	if (c.status == EMPTY) {
		int k = claimant(src, w, h, x, y);
		if (k < 0) {
			dst[idx] = with_occupant(out, EMPTY, 0);
		} else {
			dst[idx] = with_occupant(out, src[k].status, src[k].population / 2);
		}
		return;
	}

	uint status = c.status;
	int pop = c.population;
	if (c.direction_x != 0 || c.direction_y != 0) {
		int tx = x + c.direction_x;
		int ty = y + c.direction_y;
		if (in_bounds(tx, ty, w, h) && src[ty * w + tx].status == EMPTY && claimant(src, w, h, tx, ty) == idx) {
			pop -= c.population / 2;
		}
	}

	if (status == HUMAN) {
		if (zombies_adj > 0) {
			int infected = min((zombies_adj + INFECT_DIVISOR - 1) / INFECT_DIVISOR, pop);
			pop -= infected;
			if (pop == 0) {
				status = ZOMBIE;
				pop = infected;
			}
		} else if (pop < MAX_POPULATION) {
			pop += 1;
		}
	} else if (status == ZOMBIE) {
		pop -= humans_adj / KILL_DIVISOR;
		if (c.temperature > HEAT_LIMIT) pop -= 1;
	}
	dst[idx] = with_occupant(out, status, pop);
}
`
